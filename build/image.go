package build

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"

	"github.com/outofforest/bedrock/pkg/settings"
	"github.com/outofforest/build/v2/pkg/types"
	"github.com/outofforest/logger"
)

const baseImagePath = "bin/live/base.tar.xz"

// buildLiveImage repacks the base filesystem into the live installer seed:
// the installer binaries are dropped into /usr/bin side by side (the
// launcher copies its sibling into the chroot) and the default settings are
// rendered into /etc/bedrock.
func buildLiveImage(ctx context.Context, _ types.DepsFunc, config Config) error {
	if err := downloadBase(ctx, config.Base); err != nil {
		return err
	}

	logger.Get(ctx).Info("Building live image")

	baseF, err := os.Open(baseImagePath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer baseF.Close()

	baseR, err := xz.NewReader(baseF)
	if err != nil {
		return errors.WithStack(err)
	}

	tmpPath := config.LiveImagePath + ".tmp"
	outF, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.WithStack(err)
	}
	defer outF.Close()

	outW, err := xz.NewWriter(outF)
	if err != nil {
		return errors.WithStack(err)
	}
	defer outW.Close()

	tw := tar.NewWriter(outW)
	defer tw.Close()

	tr := tar.NewReader(baseR)
loop:
	for {
		hdr, err := tr.Next()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			break loop
		default:
			return errors.WithStack(err)
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return errors.WithStack(err)
		}
		if _, err := io.Copy(tw, tr); err != nil {
			return errors.WithStack(err)
		}
	}

	if err := addBinary(tw, "usr/bin/bedrock", config.LauncherBin); err != nil {
		return err
	}
	if err := addBinary(tw, "usr/bin/bedrock-chroot", config.ChrootBin); err != nil {
		return err
	}
	if err := addSettings(tw, config.SettingsTarget); err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := outW.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := outF.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Rename(tmpPath, config.LiveImagePath))
}

func downloadBase(ctx context.Context, base Base) error {
	if err := os.MkdirAll(filepath.Dir(baseImagePath), 0o700); err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.URL, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	baseF, err := os.OpenFile(baseImagePath, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		return errors.WithStack(err)
	}
	defer baseF.Close()

	hasher := sha256.New()
	if _, err := io.Copy(baseF, io.TeeReader(resp.Body, hasher)); err != nil {
		return errors.WithStack(err)
	}

	checksum := hex.EncodeToString(hasher.Sum(nil))
	if checksum != base.SHA256 {
		return errors.Errorf("base image checksum mismatch, expected: %q, got: %q", base.SHA256, checksum)
	}

	return nil
}

func addBinary(tw *tar.Writer, target, source string) error {
	f, err := os.Open(source)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}

	if err := tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     target,
		Size:     size,
		Mode:     0o755,
	}); err != nil {
		return errors.WithStack(err)
	}

	_, err = io.Copy(tw, f)
	return errors.WithStack(err)
}

func addSettings(tw *tar.Writer, target string) error {
	content, err := json.MarshalIndent(settings.Default(), "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	content = append(content, '\n')

	if err := tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     target,
		Size:     int64(len(content)),
		Mode:     0o644,
	}); err != nil {
		return errors.WithStack(err)
	}

	_, err = tw.Write(content)
	return errors.WithStack(err)
}
