package pricing

import (
	"time"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// SelectActiveBook elige la lista vigente en asOf sin estado global.
// Las listas de la sucursal ganan sobre las globales; entre candidatas gana el ValidFrom más reciente
// y, en empate, el ID menor. Devuelve nil si ninguna aplica.
func SelectActiveBook(books []*entity.PriceBook, branchID *string, asOf time.Time) *entity.PriceBook {
	var branchBest, globalBest *entity.PriceBook
	for _, b := range books {
		if !b.Contains(asOf) {
			continue
		}
		switch {
		case b.IsGlobal():
			globalBest = newer(globalBest, b)
		case branchID != nil && *b.BranchID == *branchID:
			branchBest = newer(branchBest, b)
		}
	}
	if branchBest != nil {
		return branchBest
	}
	return globalBest
}

func newer(cur, cand *entity.PriceBook) *entity.PriceBook {
	if cur == nil {
		return cand
	}
	if cand.ValidFrom.After(cur.ValidFrom) {
		return cand
	}
	if cand.ValidFrom.Equal(cur.ValidFrom) && cand.ID < cur.ID {
		return cand
	}
	return cur
}
