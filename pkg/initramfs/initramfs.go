package initramfs

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cavaliergopher/cpio"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/libexec"
	"github.com/outofforest/logger"
)

const bootDir = "/boot"

// Step generates the initramfs for every installed kernel and verifies the
// produced images are loadable. It runs inside the target.
func Step() install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "initramfs",
			Fn: func(ctx context.Context, _ *install.State) error {
				if err := libexec.Exec(ctx, exec.Command("update-initramfs", "-c", "-k", "all")); err != nil {
					return errors.Wrap(err, "generating initramfs failed")
				}
				return VerifyAll(ctx, bootDir)
			},
		})
		return nil
	}
}

// VerifyAll checks every initrd image in the boot directory.
func VerifyAll(ctx context.Context, dir string) error {
	log := logger.Get(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.WithStack(err)
	}

	var verified int
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "initrd.img") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := Verify(path); err != nil {
			return errors.Wrapf(err, "initramfs %s is broken", path)
		}
		log.Info("Initramfs verified", zap.String("path", path))
		verified++
	}
	if verified == 0 {
		return errors.Errorf("no initramfs produced in %s", dir)
	}
	return nil
}

// Verify checks that the image is a readable compressed cpio archive with
// boot content inside. A truncated or garbage image would leave the
// installed system unbootable, better to fail the sequence here.
func Verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	r, err := decompressor(bufio.NewReader(f))
	if err != nil {
		return err
	}

	cr := cpio.NewReader(r)
	for {
		hdr, err := cr.Next()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return errors.New("no init or conf entry present")
		default:
			return errors.WithStack(err)
		}

		name := strings.TrimPrefix(hdr.Name, "./")
		if name == "init" || strings.HasPrefix(name, "conf/") {
			return nil
		}
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

func decompressor(r *bufio.Reader) (io.Reader, error) {
	magic, err := r.Peek(len(xzMagic))
	if err != nil {
		return nil, errors.Wrap(err, "image too short")
	}

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gr, err := gzip.NewReader(r)
		return gr, errors.WithStack(err)
	case bytes.HasPrefix(magic, xzMagic):
		xr, err := xz.NewReader(r)
		return xr, errors.WithStack(err)
	default:
		return nil, errors.New("not a gzip or xz compressed image")
	}
}
