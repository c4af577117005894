package hostname

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHosts(t *testing.T) {
	hosts := Hosts("workstation")
	require.Contains(t, hosts, "127.0.0.1\tlocalhost\n")
	require.Contains(t, hosts, "127.0.1.1\tworkstation\n")
	require.Contains(t, hosts, "::1\tlocalhost")
}

func TestValidHostnames(t *testing.T) {
	for _, name := range []string{"a", "workstation", "node-01", "A1-b2"} {
		require.True(t, validHostname.MatchString(name), name)
	}
}

func TestInvalidHostnames(t *testing.T) {
	for _, name := range []string{"", "-leading", "trailing-", "under_score", "spa ce", "dot.ted"} {
		require.False(t, validHostname.MatchString(name), name)
	}
}
