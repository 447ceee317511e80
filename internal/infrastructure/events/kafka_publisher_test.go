package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublicaJSONConClaveDeSucursal(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w)
	lot := "lot-1"
	evt := ports.InventoryEvent{
		Type:     ports.EventSalesOrderFulfilled,
		RefType:  entity.RefSalesOrder,
		RefID:    "so-1",
		BranchID: "b1",
		Status:   "FULFILLED",
		Transactions: []*entity.StockTransaction{
			{ID: "t1", BranchID: "b1", ProductID: "p1", LotID: &lot, Type: entity.TxSale, Quantity: -3},
		},
		OccurredAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), evt))
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, []byte("b1"), msg.Key)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(ports.EventSalesOrderFulfilled), msg.Headers[0].Value)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	txs := got["transactions"].([]any)
	require.Len(t, txs, 1)
	assert.Equal(t, float64(-3), txs[0].(map[string]any)["quantity"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_ErrorDelBroker(t *testing.T) {
	p := newKafkaPublisher(&fakeWriter{err: errors.New("leader not available")})
	err := p.Publish(context.Background(), ports.InventoryEvent{Type: ports.EventStockAdjusted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ports.EventStockAdjusted)
}

func TestLogPublisher_NuncaFalla(t *testing.T) {
	p := NewLogPublisher(logger.Nop())
	assert.NoError(t, p.Publish(context.Background(), ports.InventoryEvent{Type: ports.EventStockAdjusted}))
}
