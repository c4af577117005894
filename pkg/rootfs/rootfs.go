package rootfs

import (
	"archive/tar"
	"context"
	"encoding/hex"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/libexec"
	"github.com/outofforest/logger"
)

// seedFile records the digest of the extracted seed inside the target so a
// restarted installation does not extract the same image twice.
const seedFile = ".seed"

// Steps mounts the prepared partitions and extracts the live seed image into
// the target.
func Steps(seedPath string) install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(
			install.StepConfig{
				Name: "mount",
				Fn: func(ctx context.Context, s *install.State) error {
					return Mount(ctx, s)
				},
			},
			install.StepConfig{
				Name: "extract",
				Fn: func(ctx context.Context, s *install.State) error {
					return Extract(ctx, seedPath, s.TargetDir)
				},
			},
		)
		return nil
	}
}

// Mount mounts the root partition at the target directory, and the home
// partition inside it when one exists. Filesystem detection is left to
// mount, the root may be ext4 or a btrfs array.
func Mount(ctx context.Context, s *install.State) error {
	if s.RootPartition == "" {
		s.RootPartition = s.Params.RootDevice
	}

	if err := os.MkdirAll(s.TargetDir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	if err := libexec.Exec(ctx, exec.Command("mount", s.RootPartition, s.TargetDir)); err != nil {
		return errors.Wrapf(err, "mounting %s failed", s.RootPartition)
	}

	if s.HomePartition == "" {
		return nil
	}
	homeDir := filepath.Join(s.TargetDir, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(libexec.Exec(ctx, exec.Command("mount", s.HomePartition, homeDir)),
		"mounting %s failed", s.HomePartition)
}

// Unmount unmounts everything mounted below and at the target directory, in
// reverse order.
func Unmount(ctx context.Context, s *install.State) error {
	if s.HomePartition != "" {
		if err := libexec.Exec(ctx, exec.Command("umount", filepath.Join(s.TargetDir, "home"))); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(libexec.Exec(ctx, exec.Command("umount", s.TargetDir)))
}

// Extract unpacks the seed image into the target directory. Squashfs images
// go through unsquashfs, tarballs are unpacked directly.
func Extract(ctx context.Context, seedPath, targetDir string) error {
	log := logger.Get(ctx)

	digest, err := fileDigest(seedPath)
	if err != nil {
		return err
	}

	markerPath := filepath.Join(targetDir, seedFile)
	if previous, err := os.ReadFile(markerPath); err == nil && strings.TrimSpace(string(previous)) == digest {
		log.Info("Seed already extracted", zap.String("seed", seedPath))
		return nil
	}

	log.Info("Extracting seed", zap.String("seed", seedPath), zap.String("target", targetDir))

	switch {
	case strings.HasSuffix(seedPath, ".squashfs") || strings.HasSuffix(seedPath, ".sfs"):
		if err := libexec.Exec(ctx, exec.Command("unsquashfs", "-f", "-d", targetDir, seedPath)); err != nil {
			return errors.Wrapf(err, "extracting %s failed", seedPath)
		}
	case strings.HasSuffix(seedPath, ".tar.xz"):
		if err := inflateTarXZ(seedPath, targetDir); err != nil {
			return err
		}
	default:
		return errors.Errorf("unsupported seed image %q", seedPath)
	}

	return errors.WithStack(os.WriteFile(markerPath, []byte(digest), 0o600))
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.WithStack(err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func inflateTarXZ(seedPath, targetDir string) error {
	f, err := os.Open(seedPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return errors.WithStack(err)
	}

	tr := tar.NewReader(xr)
	for {
		hdr, err := tr.Next()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		default:
			return errors.WithStack(err)
		}

		path := filepath.Join(targetDir, filepath.Clean("/"+hdr.Name))
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, os.FileMode(hdr.Mode)); err != nil {
				return errors.WithStack(err)
			}
		case tar.TypeSymlink:
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return errors.WithStack(err)
			}
			if err := os.Symlink(hdr.Linkname, path); err != nil {
				return errors.WithStack(err)
			}
		case tar.TypeLink:
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return errors.WithStack(err)
			}
			if err := os.Link(filepath.Join(targetDir, filepath.Clean("/"+hdr.Linkname)), path); err != nil {
				return errors.WithStack(err)
			}
		case tar.TypeReg:
			if err := inflateFile(path, os.FileMode(hdr.Mode), tr); err != nil {
				return err
			}
		}
	}
}

func inflateFile(path string, mode os.FileMode, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WithStack(err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}
