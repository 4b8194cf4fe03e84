package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		other  error
	}{
		{name: "storage", err: fmt.Errorf("%w: insert user: boom", ErrStorage), target: ErrStorage, other: ErrProvider},
		{name: "provider", err: fmt.Errorf("%w: openai status 500", ErrProvider), target: ErrProvider, other: ErrStorage},
		{name: "configuration", err: fmt.Errorf("%w: DATABASE_URL missing", ErrConfiguration), target: ErrConfiguration, other: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.target))
			assert.False(t, errors.Is(tt.err, tt.other))
		})
	}
}
