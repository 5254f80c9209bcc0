package list_events

import (
	"context"
	"fmt"
	"strings"

	"github.com/light-bringer/rolediscount-service/internal/models/m_outbox"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Request filters the settings audit trail. Empty strings do not filter.
type Request struct {
	EventType string // e.g. "discount_settings.saved"
	Status    string // "pending", "completed" or "failed"
	Limit     int
}

// EventsReadModel reads outbox events, newest first.
type EventsReadModel interface {
	ListEvents(ctx context.Context, req *Request) ([]*m_outbox.Data, error)
}

// Query handles the list events query use case.
type Query struct {
	readModel EventsReadModel
}

// NewQuery creates a new list events query.
func NewQuery(readModel EventsReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute returns matching events. The limit defaults to 100 and is capped at 1000.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*m_outbox.Data, error) {
	normalized := Request{
		EventType: strings.TrimSpace(req.EventType),
		Status:    strings.TrimSpace(req.Status),
		Limit:     req.Limit,
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultLimit
	}
	if normalized.Limit > maxLimit {
		normalized.Limit = maxLimit
	}

	events, err := q.readModel.ListEvents(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
