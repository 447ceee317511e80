// Package redis serializa las claves de stock entre instancias de la API con locks de Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

// ErrNotObtained otra instancia tiene la clave.
var ErrNotObtained = errors.New("lock no obtenido")

// Locker obtiene un lock exclusivo con TTL; la función devuelta lo libera.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

var _ ports.TxRunner = (*LockingTxRunner)(nil)

// LockingTxRunner toma un lock de Redis por clave antes de delegar en el runner de base de datos.
type LockingTxRunner struct {
	next   ports.TxRunner
	locker Locker
	ttl    time.Duration
	log    *logger.Logger
}

// NewLockingTxRunner decora next con locks distribuidos.
func NewLockingTxRunner(next ports.TxRunner, locker Locker, ttl time.Duration, log *logger.Logger) *LockingTxRunner {
	return &LockingTxRunner{next: next, locker: locker, ttl: ttl, log: log}
}

// Run adquiere las claves en orden; si alguna no se obtiene libera las ya tomadas y responde ErrConflict.
func (r *LockingTxRunner) Run(ctx context.Context, keys []entity.LockKey, fn func(ports.Repos) error) error {
	ordered := dedupSorted(keys)
	releases := make([]func(context.Context) error, 0, len(ordered))
	defer func() {
		// liberar en orden inverso; ctx puede estar cancelado
		for i := len(releases) - 1; i >= 0; i-- {
			if err := releases[i](context.WithoutCancel(ctx)); err != nil {
				r.log.Warn().Err(err).Msg("liberar lock de redis")
			}
		}
	}()

	for _, k := range ordered {
		release, err := r.locker.Obtain(ctx, "lock:"+string(k), r.ttl)
		if errors.Is(err, ErrNotObtained) {
			return fmt.Errorf("%w: clave %s ocupada por otra operación", domain.ErrConflict, k)
		}
		if err != nil {
			return fmt.Errorf("obtener lock %s: %w", k, err)
		}
		releases = append(releases, release)
	}
	return r.next.Run(ctx, keys, fn)
}

func dedupSorted(keys []entity.LockKey) []entity.LockKey {
	seen := make(map[entity.LockKey]bool, len(keys))
	out := make([]entity.LockKey, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
