package rootfs

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/outofforest/bedrock/pkg/test"
)

func TestExtractTarXZ(t *testing.T) {
	ctx := test.Context(t)
	seedPath := writeSeed(t, map[string]string{
		"etc/hostname": "live\n",
		"usr/bin/tool": "#!/bin/sh\n",
	})
	targetDir := t.TempDir()

	require.NoError(t, Extract(ctx, seedPath, targetDir))

	content, err := os.ReadFile(filepath.Join(targetDir, "etc/hostname"))
	require.NoError(t, err)
	require.Equal(t, "live\n", string(content))

	info, err := os.Stat(filepath.Join(targetDir, "usr/bin/tool"))
	require.NoError(t, err)
	require.EqualValues(t, 0o755, info.Mode().Perm())
}

func TestExtractSkipsWhenSeedUnchanged(t *testing.T) {
	ctx := test.Context(t)
	seedPath := writeSeed(t, map[string]string{"etc/hostname": "live\n"})
	targetDir := t.TempDir()

	require.NoError(t, Extract(ctx, seedPath, targetDir))

	// A second run with the same seed must not touch the target.
	marker := filepath.Join(targetDir, "etc/hostname")
	require.NoError(t, os.WriteFile(marker, []byte("touched\n"), 0o644))
	require.NoError(t, Extract(ctx, seedPath, targetDir))

	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	require.Equal(t, "touched\n", string(content))
}

func TestExtractRejectsUnknownFormat(t *testing.T) {
	ctx := test.Context(t)
	seedPath := filepath.Join(t.TempDir(), "seed.img")
	require.NoError(t, os.WriteFile(seedPath, []byte("bogus"), 0o600))

	require.Error(t, Extract(ctx, seedPath, t.TempDir()))
}

func writeSeed(t *testing.T, files map[string]string) string {
	seedPath := filepath.Join(t.TempDir(), "seed.tar.xz")
	f, err := os.Create(seedPath)
	require.NoError(t, err)
	defer f.Close()

	xw, err := xz.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(xw)

	for name, content := range files {
		mode := int64(0o644)
		if filepath.Dir(name) == "usr/bin" {
			mode = 0o755
		}
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeReg,
			Name:     name,
			Size:     int64(len(content)),
			Mode:     mode,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, xw.Close())
	require.NoError(t, f.Close())

	return seedPath
}
