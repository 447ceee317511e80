package events

import (
	"context"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher registra los eventos en el log cuando no hay brokers configurados.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher publicador de respaldo sin Kafka.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, evt ports.InventoryEvent) error {
	p.log.Info().
		Str("event", evt.Type).
		Str("ref_type", evt.RefType).
		Str("ref_id", evt.RefID).
		Str("branch_id", evt.BranchID).
		Str("status", evt.Status).
		Int("transactions", len(evt.Transactions)).
		Msg("evento de inventario")
	return nil
}
