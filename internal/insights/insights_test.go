package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"evwcloud/m/domain"
)

func TestDisabledServiceReturnsFallbacks(t *testing.T) {
	gen := New("", time.Second)

	desc := gen.ProductDescription(context.Background(), domain.Product{Name: "Tokyo Iced Mint"})
	assert.Equal(t, "API Key missing. Please configure.", desc)

	insight := gen.BusinessInsights(context.Background(), domain.DashboardStats{}, nil)
	assert.Equal(t, "API Key missing.", insight)
}

func TestServiceFailsSoftOnUnreachableAPI(t *testing.T) {
	// A bogus key against an already-expired context exercises the error
	// path without touching the network.
	gen := New("sk-invalid", time.Nanosecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "AI service temporarily unavailable.", gen.ProductDescription(ctx, domain.Product{Name: "X"}))
	assert.Equal(t, "Could not fetch insights.", gen.BusinessInsights(ctx, domain.DashboardStats{}, []string{"X"}))
}
