package embedprovider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToStatic(t *testing.T) {
	p := New(context.Background(), Config{})
	assert.Equal(t, "static256", p.Name())
}

func TestNew_ExplicitStatic(t *testing.T) {
	p := New(context.Background(), Config{Kind: "static256"})
	assert.Equal(t, "static256", p.Name())
}

func TestNew_UnknownKindFallsBackToStatic(t *testing.T) {
	p := New(context.Background(), Config{Kind: "bogus"})
	assert.Equal(t, "static256", p.Name())
}

func TestNew_ExplicitNone(t *testing.T) {
	p := New(context.Background(), Config{Kind: "none"})
	assert.Equal(t, "none", p.Name())
	assert.Equal(t, 0, p.Dim())
}

func TestNew_FallbackWithoutEndpointDegradesToNone(t *testing.T) {
	p := New(context.Background(), Config{Kind: "httpfallback384"})
	assert.Equal(t, "none", p.Name())
}

func TestNew_FallbackUnreachableDegradesToNone(t *testing.T) {
	p := New(context.Background(), Config{Kind: "httpfallback384", Endpoint: "http://127.0.0.1:1"})
	assert.Equal(t, "none", p.Name())
}

func TestNew_FallbackReachableIsUsedAndCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := New(context.Background(), Config{Kind: "httpfallback384", Endpoint: server.URL})
	assert.Equal(t, "httpfallback384", p.Name())

	_, ok := p.(*Cached)
	require.True(t, ok, "reachable providers should be wrapped in the cache")
}

func TestNew_NoneIsNeverWrappedInCache(t *testing.T) {
	p := New(context.Background(), Config{Kind: "none"})
	_, ok := p.(*Cached)
	assert.False(t, ok)
}
