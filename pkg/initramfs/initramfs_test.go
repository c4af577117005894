package initramfs

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/cavaliergopher/cpio"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/outofforest/bedrock/pkg/test"
)

func TestVerifyGzipImage(t *testing.T) {
	path := writeImage(t, "gzip", []string{"kernel/modules.dep", "init"})
	require.NoError(t, Verify(path))
}

func TestVerifyXZImage(t *testing.T) {
	path := writeImage(t, "xz", []string{"conf/initramfs.conf"})
	require.NoError(t, Verify(path))
}

func TestVerifyRejectsImageWithoutBootContent(t *testing.T) {
	path := writeImage(t, "gzip", []string{"usr/share/doc/readme"})
	require.Error(t, Verify(path))
}

func TestVerifyRejectsUncompressedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "initrd.img")
	require.NoError(t, os.WriteFile(path, []byte("not an initramfs at all"), 0o600))
	require.Error(t, Verify(path))
}

func TestVerifyRejectsTruncatedImage(t *testing.T) {
	path := writeImage(t, "gzip", []string{"init"})
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content[:len(content)/2], 0o600))
	require.Error(t, Verify(path))
}

func TestVerifyAllRequiresImages(t *testing.T) {
	ctx := test.Context(t)
	require.Error(t, VerifyAll(ctx, t.TempDir()))
}

func TestVerifyAll(t *testing.T) {
	ctx := test.Context(t)
	dir := t.TempDir()
	path := writeImage(t, "gzip", []string{"init"})
	require.NoError(t, os.Rename(path, filepath.Join(dir, "initrd.img-6.1.0")))
	require.NoError(t, VerifyAll(ctx, dir))
}

func writeImage(t *testing.T, compression string, entries []string) string {
	path := filepath.Join(t.TempDir(), "initrd.img")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	var cw interface {
		Write([]byte) (int, error)
		Close() error
	}
	switch compression {
	case "gzip":
		cw = gzip.NewWriter(f)
	case "xz":
		cw, err = xz.NewWriter(f)
		require.NoError(t, err)
	}

	w := cpio.NewWriter(cw)
	for _, name := range entries {
		require.NoError(t, w.WriteHeader(&cpio.Header{Name: name, Mode: 0o644, Size: 4}))
		_, err := w.Write([]byte("data"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, cw.Close())
	require.NoError(t, f.Close())

	return path
}
