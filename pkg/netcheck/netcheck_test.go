package netcheck

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/test"
)

func TestProbeReachable(t *testing.T) {
	ctx := test.Context(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.True(t, probe(ctx, server.URL))
}

func TestProbeServerError(t *testing.T) {
	ctx := test.Context(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	require.False(t, probe(ctx, server.URL))
}

func TestProbeUnreachable(t *testing.T) {
	ctx := test.Context(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	require.False(t, probe(ctx, server.URL))
}
