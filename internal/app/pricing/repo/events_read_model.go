package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/rolediscount-service/internal/models/m_outbox"
	"github.com/light-bringer/rolediscount-service/internal/pkg/query"
)

// EventsReadModel implements list_events.EventsReadModel for Spanner.
type EventsReadModel struct {
	client *spanner.Client
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(client *spanner.Client) *EventsReadModel {
	return &EventsReadModel{
		client: client,
	}
}

// ListEvents reads outbox events newest first.
func (r *EventsReadModel) ListEvents(ctx context.Context, req *list_events.Request) ([]*m_outbox.Data, error) {
	var events []*m_outbox.Data
	err := eachRow(r.client.Single().Query(ctx, EventsStatement(req)), func(row *spanner.Row) error {
		var event m_outbox.Data
		if err := row.ToStruct(&event); err != nil {
			return fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// EventsStatement builds the filtered outbox query.
func EventsStatement(req *list_events.Request) spanner.Statement {
	b := query.From(m_outbox.TableName).Select(m_outbox.Columns...)
	if req.EventType != "" {
		b = b.Where(query.Eq(m_outbox.EventType, req.EventType))
	}
	if req.Status != "" {
		b = b.Where(query.Eq(m_outbox.Status, req.Status))
	}
	return b.OrderBy(m_outbox.CreatedAt, query.Desc).Limit(int64(req.Limit)).Build()
}
