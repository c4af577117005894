package users

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/test"
)

func TestValidUsernames(t *testing.T) {
	for _, name := range []string{"alice", "bob-2", "svc_backup", "_system"} {
		require.True(t, validUsername.MatchString(name), name)
	}
}

func TestInvalidUsernames(t *testing.T) {
	for _, name := range []string{"", "Alice", "1user", "user name", "user:name"} {
		require.False(t, validUsername.MatchString(name), name)
	}
}

func TestCreateRejectsInvalidUsername(t *testing.T) {
	ctx := test.Context(t)
	require.Error(t, Create(ctx, "Invalid User", "secret"))
}
