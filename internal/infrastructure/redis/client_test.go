package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bsm/redislock"
	"github.com/stretchr/testify/assert"
)

func TestObtainError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "no obtenido", in: redislock.ErrNotObtained, want: ErrNotObtained},
		{name: "no obtenido envuelto", in: fmt.Errorf("obtain lock:stock: %w", redislock.ErrNotObtained), want: ErrNotObtained},
		{name: "timeout pasa intacto", in: context.DeadlineExceeded, want: context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(obtainError(tt.in), tt.want))
		})
	}
	assert.False(t, errors.Is(obtainError(context.DeadlineExceeded), ErrNotObtained))
}
