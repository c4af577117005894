package chroot

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"

	"github.com/outofforest/libexec"
)

// BinaryPath is where the target-side binary is placed inside the new root.
const BinaryPath = "/usr/libexec/bedrock-chroot"

// EnvNetwork carries the launcher's reachability check result into the
// chroot, so the network is probed exactly once per installation.
const EnvNetwork = "BEDROCK_NETWORK"

var apiFilesystems = []string{"proc", "sys", "dev", "dev/pts", "run"}

// Enter prepares the target root for chrooted execution: the kernel API
// filesystems are bind-mounted inside it, the host resolver config is copied
// so package installation can reach the mirror, and the target-side binary
// is installed.
func Enter(targetDir string) error {
	for _, fs := range apiFilesystems {
		if err := bind("/"+fs, filepath.Join(targetDir, fs)); err != nil {
			return err
		}
	}
	if err := copyFile(filepath.Join(targetDir, "etc/resolv.conf"), "/etc/resolv.conf", 0o644); err != nil {
		return err
	}

	self, err := os.Executable()
	if err != nil {
		return errors.WithStack(err)
	}
	return copyFile(filepath.Join(targetDir, filepath.Dir(BinaryPath), "bedrock-chroot"),
		filepath.Join(filepath.Dir(self), "bedrock-chroot"), 0o755)
}

// Leave tears down what Enter set up, in reverse order. The target-side
// binary is removed so it does not ship in the installed system.
func Leave(targetDir string) error {
	if err := os.Remove(filepath.Join(targetDir, BinaryPath)); err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}

	for i := len(apiFilesystems) - 1; i >= 0; i-- {
		dir := filepath.Join(targetDir, apiFilesystems[i])
		if err := syscall.Unmount(dir, syscall.MNT_DETACH); err != nil && !errors.Is(err, syscall.EINVAL) {
			return errors.WithStack(err)
		}
	}
	return nil
}

// Exec runs the target-side binary inside the chroot. Stdout is inherited so
// the progress ordinals it prints reach the launcher's stdout unchanged.
func Exec(ctx context.Context, targetDir string, env []string, args ...string) error {
	return errors.WithStack(libexec.Exec(ctx, &exec.Cmd{
		Path:   "/usr/sbin/chroot",
		Args:   append([]string{"chroot", targetDir, BinaryPath}, args...),
		Env:    append(os.Environ(), env...),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}))
}

func bind(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return errors.WithStack(err)
	}
	if err := syscall.Mount(src, dst, "", syscall.MS_BIND, ""); err != nil {
		return errors.WithStack(err)
	}
	// The kernel ignores propagation flags combined with a bind, changing
	// the propagation takes a second call.
	return errors.WithStack(syscall.Mount("", dst, "", syscall.MS_SLAVE, ""))
}

func copyFile(dst, src string, perm os.FileMode) error {
	srcF, err := os.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.WithStack(err)
	}

	dstF, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.WithStack(err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(dstF.Close())
}
