package entity

// LockKey clave de serialización para operaciones que cambian cantidades.
type LockKey string

// StockLockKey serializa el libro de un producto en una sucursal.
func StockLockKey(branchID, productID string) LockKey {
	return LockKey("stock:" + branchID + ":" + productID)
}

// CostStatsLockKey serializa el trinquete del precio pico de compra de un producto.
func CostStatsLockKey(productID string) LockKey {
	return LockKey("cost:" + productID)
}
