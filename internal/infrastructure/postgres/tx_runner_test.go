package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

func TestSortedKeys_OrdenaYDeduplica(t *testing.T) {
	keys := []entity.LockKey{
		entity.StockLockKey("b1", "p2"),
		entity.CostStatsLockKey("p2"),
		entity.StockLockKey("b1", "p1"),
		entity.StockLockKey("b1", "p2"),
	}
	assert.Equal(t, []entity.LockKey{"cost:p2", "stock:b1:p1", "stock:b1:p2"}, sortedKeys(keys))
	assert.Empty(t, sortedKeys(nil))
}

func TestNullIfEmpty(t *testing.T) {
	empty := ""
	lot := "lot-1"
	assert.Nil(t, nullIfEmpty(nil))
	assert.Nil(t, nullIfEmpty(&empty))
	assert.Equal(t, &lot, nullIfEmpty(&lot))
}

func TestMigrationsEmbebidas(t *testing.T) {
	script, err := migrationsFS.ReadFile("migrations/001_inventory_ledger.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(script), "CREATE TABLE IF NOT EXISTS stock_transactions")
}
