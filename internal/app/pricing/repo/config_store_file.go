package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/contracts"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// FileConfigStore keeps the discount configuration in a YAML file.
// Writes go to a temporary file that is renamed into place.
type FileConfigStore struct {
	path string
	mu   sync.Mutex
}

// NewFileConfigStore creates a store backed by path. The file need not exist yet.
func NewFileConfigStore(path string) *FileConfigStore {
	return &FileConfigStore{path: path}
}

// FileDocument is the on-disk layout. Percent values may be numbers or strings.
type FileDocument struct {
	Revision          string                    `yaml:"revision,omitempty"`
	UpdatedAt         time.Time                 `yaml:"updated_at,omitempty"`
	Roles             map[string]FileRole       `yaml:"roles"`
	CategoryOverrides map[string]map[string]any `yaml:"category_overrides,omitempty"`
}

// FileRole is one role entry in FileDocument.
type FileRole struct {
	Enabled        bool   `yaml:"enabled"`
	Label          string `yaml:"label,omitempty"`
	DefaultPercent any    `yaml:"default_percent,omitempty"`
}

// Load reads the file. A missing file is an empty configuration.
func (s *FileConfigStore) Load(ctx context.Context) (*domain.DiscountConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save replaces the file contents. Events are not persisted by this backend.
func (s *FileConfigStore) Save(ctx context.Context, cfg *domain.DiscountConfiguration, opts contracts.SaveOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.ExpectedRevision != "" {
		current, err := s.load()
		if err != nil {
			return err
		}
		if current.Revision != opts.ExpectedRevision {
			return fmt.Errorf("%w: expected revision %q, stored %q", domain.ErrRevisionConflict, opts.ExpectedRevision, current.Revision)
		}
	}

	b, err := yaml.Marshal(ToFileDocument(cfg))
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".discounts-*.yaml")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *FileConfigStore) load() (*domain.DiscountConfiguration, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewEmptyConfiguration(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return DecodeFileDocument(b)
}

// DecodeFileDocument parses YAML into a configuration. Percentages are clamped and
// entries for unknown roles dropped.
func DecodeFileDocument(b []byte) (*domain.DiscountConfiguration, error) {
	var doc FileDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	cfg := domain.NewEmptyConfiguration()
	cfg.Revision = doc.Revision
	cfg.UpdatedAt = doc.UpdatedAt
	for key, role := range doc.Roles {
		cfg.EnabledRoles[key] = role.Enabled
		if role.Label != "" {
			cfg.RoleLabels[key] = role.Label
		}
		if role.DefaultPercent != nil {
			cfg.DefaultPercentByRole[key] = domain.ParsePercentValue(role.DefaultPercent)
		}
	}
	for categoryID, byRole := range doc.CategoryOverrides {
		cfg.CategoryOverrides[categoryID] = make(map[string]decimal.Decimal, len(byRole))
		for role, raw := range byRole {
			cfg.CategoryOverrides[categoryID][role] = domain.ParsePercentValue(raw)
		}
	}
	cfg.Normalize()
	return cfg, nil
}

// ToFileDocument converts cfg to its on-disk layout. Percentages are written as numbers.
func ToFileDocument(cfg *domain.DiscountConfiguration) FileDocument {
	doc := FileDocument{
		Revision:  cfg.Revision,
		UpdatedAt: cfg.UpdatedAt,
		Roles:     make(map[string]FileRole, len(cfg.EnabledRoles)),
	}
	for _, key := range cfg.Roles() {
		role := FileRole{Enabled: cfg.EnabledRoles[key], Label: cfg.RoleLabels[key]}
		if p, ok := cfg.DefaultPercentByRole[key]; ok {
			role.DefaultPercent = p.InexactFloat64()
		}
		doc.Roles[key] = role
	}

	for categoryID, overrides := range cfg.CategoryOverrides {
		if doc.CategoryOverrides == nil {
			doc.CategoryOverrides = make(map[string]map[string]any)
		}
		byRole := make(map[string]any, len(overrides))
		for role, p := range overrides {
			byRole[role] = p.InexactFloat64()
		}
		doc.CategoryOverrides[categoryID] = byRole
	}
	return doc
}
