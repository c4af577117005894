package apt

import (
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/outofforest/libexec"
)

// Debconf prompts would block the sequence forever, so every apt invocation
// runs noninteractively.
var env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")

// Update refreshes the package indexes.
func Update(ctx context.Context) error {
	return run(ctx, "update")
}

// Install installs packages.
func Install(ctx context.Context, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	return run(ctx, append([]string{"install", "-y", "-o", "Dpkg::Options::=--force-confnew"}, packages...)...)
}

// Upgrade applies all pending package updates.
func Upgrade(ctx context.Context) error {
	return run(ctx, "dist-upgrade", "-y", "-o", "Dpkg::Options::=--force-confnew")
}

// Purge removes packages together with their configuration.
func Purge(ctx context.Context, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	return run(ctx, append([]string{"purge", "-y"}, packages...)...)
}

// AutoRemove drops packages nothing depends on anymore.
func AutoRemove(ctx context.Context) error {
	return run(ctx, "autoremove", "-y", "--purge")
}

func run(ctx context.Context, args ...string) error {
	cmd := exec.Command("apt-get", args...)
	cmd.Env = env
	return errors.WithStack(libexec.Exec(ctx, cmd))
}
