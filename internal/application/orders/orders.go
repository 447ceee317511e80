// Package orders implementa las máquinas de estado de órdenes de compra y de venta.
// Cada operación del ciclo de vida corre en una sola transacción que toma las claves
// de stock de todos los productos involucrados; los eventos se publican después del commit.
package orders

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

// stockKeys claves de stock (y de costo si withCost) para los productos de una sucursal.
func stockKeys(branchID string, productIDs []string, withCost bool) []entity.LockKey {
	seen := make(map[entity.LockKey]struct{})
	var keys []entity.LockKey
	add := func(k entity.LockKey) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, p := range productIDs {
		add(entity.StockLockKey(branchID, p))
		if withCost {
			add(entity.CostStatsLockKey(p))
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// publish envía el evento; un error solo se registra porque la operación ya fue confirmada.
func publish(ctx context.Context, p ports.EventPublisher, log *logger.Logger, evt ports.InventoryEvent) {
	if err := p.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).
			Str("event", evt.Type).
			Str("ref_id", evt.RefID).
			Msg("publicar evento de inventario")
	}
}

func generateCode(prefix string, now time.Time) string {
	return prefix + "-" + now.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:6])
}
