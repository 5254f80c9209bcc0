package contracts

import (
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
}

// OutboxRepository builds outbox mutations; it never applies them.
type OutboxRepository interface {
	// InsertMut creates a mutation for inserting an outbox event
	InsertMut(event *OutboxEvent) *spanner.Mutation

	// EnrichEvent serializes a domain event and wraps it with outbox metadata
	EnrichEvent(event domain.DomainEvent) (*OutboxEvent, error)
}
