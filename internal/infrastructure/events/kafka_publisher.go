// Package events publica los eventos de inventario hacia Kafka o hacia el log.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/pkg/config"
)

// messageWriter subconjunto de kafka.Writer usado por el publicador.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher escribe cada evento como JSON. La clave del mensaje es branch_id
// para que los eventos de una sucursal conserven su orden dentro de la partición.
type KafkaPublisher struct {
	w       messageWriter
	timeout time.Duration
}

// NewKafkaPublisher crea el writer hacia los brokers configurados.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	})
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w, timeout: 5 * time.Second}
}

// Publish serializa y envía el evento de forma síncrona.
func (p *KafkaPublisher) Publish(ctx context.Context, evt ports.InventoryEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", evt.Type, err)
	}
	// el request HTTP ya respondió o puede cancelarse; el evento no debe perderse por eso
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	err = p.w.WriteMessages(wctx, kafka.Message{
		Key:   []byte(evt.BranchID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
		Time: evt.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("kafka: publicar %s: %w", evt.Type, err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
