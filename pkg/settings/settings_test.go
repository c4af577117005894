package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Equal(t, Default(), s)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"mirror": "http://mirror.local/debian",
		"partitioning": {"minRootSizeMB": 30000}
	}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "http://mirror.local/debian", s.Mirror)
	require.Equal(t, uint64(30000), s.Partitioning.MinRootSizeMB)

	// Untouched keys keep their defaults.
	require.Equal(t, Default().LogPath, s.LogPath)
	require.Equal(t, Default().Partitioning.EFISizeMB, s.Partitioning.EFISizeMB)
	require.Equal(t, Default().Partitioning.HomeThresholdGB, s.Partitioning.HomeThresholdGB)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
