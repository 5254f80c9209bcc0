package repo

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/contracts"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/models/m_category_override"
	"github.com/light-bringer/rolediscount-service/internal/models/m_discount_role"
	"github.com/light-bringer/rolediscount-service/internal/models/m_discount_settings"
	"github.com/light-bringer/rolediscount-service/internal/pkg/committer"
	"github.com/light-bringer/rolediscount-service/internal/pkg/query"
)

// SpannerConfigStore keeps the discount configuration in three tables: one row per role,
// one row per (category, role) override and a singleton revision row.
type SpannerConfigStore struct {
	client    *spanner.Client
	committer *committer.Committer
	outbox    contracts.OutboxRepository
	roles     *m_discount_role.Model
	overrides *m_category_override.Model
	settings  *m_discount_settings.Model
}

// NewSpannerConfigStore creates a new SpannerConfigStore.
func NewSpannerConfigStore(client *spanner.Client, c *committer.Committer, outbox contracts.OutboxRepository) *SpannerConfigStore {
	return &SpannerConfigStore{
		client:    client,
		committer: c,
		outbox:    outbox,
		roles:     m_discount_role.NewModel(),
		overrides: m_category_override.NewModel(),
		settings:  m_discount_settings.NewModel(),
	}
}

// Load reads all three tables from one snapshot.
func (s *SpannerConfigStore) Load(ctx context.Context) (*domain.DiscountConfiguration, error) {
	txn := s.client.ReadOnlyTransaction()
	defer txn.Close()

	cfg := domain.NewEmptyConfiguration()

	row, err := txn.ReadRow(ctx, m_discount_settings.TableName, s.settings.Key(), m_discount_settings.Columns)
	switch {
	case spanner.ErrCode(err) == codes.NotFound:
	case err != nil:
		return nil, fmt.Errorf("%w: read settings: %v", domain.ErrStoreUnavailable, err)
	default:
		var data m_discount_settings.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse settings row: %w", err)
		}
		cfg.Revision = data.Revision
		cfg.UpdatedAt = data.SavedAt
	}

	roleStmt := query.From(m_discount_role.TableName).Select(m_discount_role.Columns...).Build()
	err = eachRow(txn.Query(ctx, roleStmt), func(r *spanner.Row) error {
		var data m_discount_role.Data
		if err := r.ToStruct(&data); err != nil {
			return fmt.Errorf("failed to parse role row: %w", err)
		}
		cfg.EnabledRoles[data.RoleKey] = data.Enabled
		if data.Label.Valid {
			cfg.RoleLabels[data.RoleKey] = data.Label.StringVal
		}
		if data.DefaultPercent.Valid {
			cfg.DefaultPercentByRole[data.RoleKey] = ratToDecimal(&data.DefaultPercent.Numeric)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	overrideStmt := query.From(m_category_override.TableName).Select(m_category_override.Columns...).Build()
	err = eachRow(txn.Query(ctx, overrideStmt), func(r *spanner.Row) error {
		var data m_category_override.Data
		if err := r.ToStruct(&data); err != nil {
			return fmt.Errorf("failed to parse override row: %w", err)
		}
		if cfg.CategoryOverrides[data.CategoryID] == nil {
			cfg.CategoryOverrides[data.CategoryID] = make(map[string]decimal.Decimal)
		}
		cfg.CategoryOverrides[data.CategoryID][data.RoleKey] = ratToDecimal(&data.Percent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save replaces both configuration tables and the revision row atomically, together
// with the audit event when one is given.
func (s *SpannerConfigStore) Save(ctx context.Context, cfg *domain.DiscountConfiguration, opts contracts.SaveOptions) error {
	plan := committer.NewPlan()
	plan.AddMultiple(s.ReplaceMuts(cfg))

	if opts.Event != nil {
		outboxEvent, err := s.outbox.EnrichEvent(opts.Event)
		if err != nil {
			return err
		}
		plan.Add(s.outbox.InsertMut(outboxEvent))
	}

	var guard committer.Guard
	if opts.ExpectedRevision != "" {
		guard = s.revisionGuard(opts.ExpectedRevision)
	}

	if err := s.committer.ApplyGuarded(ctx, guard, plan); err != nil {
		if errors.Is(err, domain.ErrRevisionConflict) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// ReplaceMuts returns the mutations that replace the stored configuration with cfg.
// The deletes come first so the inserts that follow never collide.
func (s *SpannerConfigStore) ReplaceMuts(cfg *domain.DiscountConfiguration) []*spanner.Mutation {
	muts := []*spanner.Mutation{
		s.roles.DeleteAllMut(),
		s.overrides.DeleteAllMut(),
	}

	for _, role := range cfg.Roles() {
		data := &m_discount_role.Data{
			RoleKey: role,
			Enabled: cfg.EnabledRoles[role],
		}
		if label, ok := cfg.RoleLabels[role]; ok {
			data.Label = spanner.NullString{StringVal: label, Valid: true}
		}
		if p, ok := cfg.DefaultPercentByRole[role]; ok {
			data.DefaultPercent = spanner.NullNumeric{Numeric: *p.Rat(), Valid: true}
		}
		muts = append(muts, s.roles.InsertMut(data))
	}

	for categoryID, byRole := range cfg.CategoryOverrides {
		for role, p := range byRole {
			muts = append(muts, s.overrides.InsertMut(&m_category_override.Data{
				CategoryID: categoryID,
				RoleKey:    role,
				Percent:    *p.Rat(),
			}))
		}
	}

	muts = append(muts, s.settings.UpsertMut(&m_discount_settings.Data{
		Revision: cfg.Revision,
		SavedAt:  cfg.UpdatedAt,
	}))
	return muts
}

func (s *SpannerConfigStore) revisionGuard(expected string) committer.Guard {
	return func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		current := ""
		row, err := txn.ReadRow(ctx, m_discount_settings.TableName, s.settings.Key(), []string{m_discount_settings.Revision})
		switch {
		case spanner.ErrCode(err) == codes.NotFound:
		case err != nil:
			return fmt.Errorf("failed to read settings revision: %w", err)
		default:
			if err := row.Column(0, &current); err != nil {
				return fmt.Errorf("failed to parse settings revision: %w", err)
			}
		}
		if current != expected {
			return fmt.Errorf("%w: expected revision %q, stored %q", domain.ErrRevisionConflict, expected, current)
		}
		return nil
	}
}

func eachRow(iter *spanner.RowIterator, fn func(*spanner.Row) error) error {
	defer iter.Stop()
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func ratToDecimal(r *big.Rat) decimal.Decimal {
	return domain.MoneyFromRat(r).Decimal()
}
