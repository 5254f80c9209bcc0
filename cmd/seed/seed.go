package main

import (
	"fmt"
	"math/big"

	"cloud.google.com/go/spanner"
	"gopkg.in/yaml.v3"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/repo"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/usecases/save_settings"
	"github.com/light-bringer/rolediscount-service/internal/models/m_category"
	"github.com/light-bringer/rolediscount-service/internal/models/m_product"
	"github.com/light-bringer/rolediscount-service/internal/models/m_product_category"
	"github.com/light-bringer/rolediscount-service/internal/pkg/committer"
)

// Document is the seed file layout: discount settings plus an optional demo catalog.
type Document struct {
	Settings *repo.FileDocument `yaml:"settings"`
	Catalog  Catalog            `yaml:"catalog"`
}

// Catalog lists the demo categories and products.
type Catalog struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

// Category is one category tree node.
type Category struct {
	ID     string `yaml:"id"`
	Parent string `yaml:"parent"`
	Name   string `yaml:"name"`
}

// Product is a simple product, or a composite one when Variants is set.
// Variants inherit the parent's categories and are ordered as listed.
type Product struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	RegularPrice string    `yaml:"regular_price"`
	SalePrice    string    `yaml:"sale_price"`
	Categories   []string  `yaml:"categories"`
	Variants     []Product `yaml:"variants"`
}

// ParseDocument decodes a seed file.
func ParseDocument(b []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &doc, nil
}

// SettingsRequest converts the settings section into a save request. It returns nil
// when the file has no settings.
func (d *Document) SettingsRequest() *save_settings.Request {
	if d.Settings == nil {
		return nil
	}
	req := &save_settings.Request{
		EnabledRoles:      make(map[string]bool, len(d.Settings.Roles)),
		RoleLabels:        make(map[string]string, len(d.Settings.Roles)),
		DefaultPercents:   make(map[string]any, len(d.Settings.Roles)),
		CategoryOverrides: d.Settings.CategoryOverrides,
	}
	for key, role := range d.Settings.Roles {
		req.EnabledRoles[key] = role.Enabled
		if role.Label != "" {
			req.RoleLabels[key] = role.Label
		}
		if role.DefaultPercent != nil {
			req.DefaultPercents[key] = role.DefaultPercent
		}
	}
	return req
}

// CatalogPlan builds the upserts for the catalog section.
func (d *Document) CatalogPlan() (*committer.CommitPlan, error) {
	plan := committer.NewPlan()
	categories := m_category.NewModel()
	products := m_product.NewModel()
	links := m_product_category.NewModel()

	for _, c := range d.Catalog.Categories {
		if c.ID == "" {
			return nil, fmt.Errorf("category without id")
		}
		plan.Add(categories.UpsertMut(&m_category.Data{
			CategoryID: c.ID,
			ParentID:   nullString(c.Parent),
			Name:       c.Name,
		}))
	}

	for _, p := range d.Catalog.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product without id")
		}
		data, err := productData(p, "", 0)
		if err != nil {
			return nil, err
		}
		plan.Add(products.UpsertMut(data))
		for _, categoryID := range p.Categories {
			plan.Add(links.UpsertMut(&m_product_category.Data{ProductID: p.ID, CategoryID: categoryID}))
		}
		for i, v := range p.Variants {
			if v.ID == "" {
				return nil, fmt.Errorf("variant of %s without id", p.ID)
			}
			vd, err := productData(v, p.ID, int64(i+1))
			if err != nil {
				return nil, err
			}
			plan.Add(products.UpsertMut(vd))
		}
	}
	return plan, nil
}

func productData(p Product, parentID string, position int64) (*m_product.Data, error) {
	regular, err := nullNumeric(p.RegularPrice)
	if err != nil {
		return nil, fmt.Errorf("product %s regular_price: %w", p.ID, err)
	}
	sale, err := nullNumeric(p.SalePrice)
	if err != nil {
		return nil, fmt.Errorf("product %s sale_price: %w", p.ID, err)
	}
	return &m_product.Data{
		ProductID:    p.ID,
		ParentID:     nullString(parentID),
		Name:         p.Name,
		RegularPrice: regular,
		SalePrice:    sale,
		Position:     position,
	}, nil
}

func nullString(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}

func nullNumeric(s string) (spanner.NullNumeric, error) {
	if s == "" {
		return spanner.NullNumeric{}, nil
	}
	m, err := domain.NewMoney(s)
	if err != nil {
		return spanner.NullNumeric{}, err
	}
	return spanner.NullNumeric{Numeric: *new(big.Rat).Set(m.Rat()), Valid: true}, nil
}
