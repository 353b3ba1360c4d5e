package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

type fixedCounter struct{}

func (fixedCounter) Count(string) int { return 1 }

func stubTokenCounter(t *testing.T) *int {
	t.Helper()
	calls := 0
	orig := tokenCounter
	tokenCounter = func(context.Context) driven.TokenCounter {
		calls++
		return fixedCounter{}
	}
	t.Cleanup(func() { tokenCounter = orig })
	return &calls
}

func TestBuildServices_TokenCounterOnlyWhenVerbose(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    int
	}{
		{"quiet", false, 0},
		{"verbose", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubTokenCounter(t)

			svc, err := buildServices(context.Background(), cli.Options{ConfigDir: t.TempDir(), Verbose: tt.verbose})
			require.NoError(t, err)
			t.Cleanup(func() { _ = svc.Close() })

			assert.Equal(t, tt.want, *calls)
			assert.NotNil(t, svc.Chat)
		})
	}
}
