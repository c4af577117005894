package swap

import (
	"context"
	"os"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/partition"
	"github.com/outofforest/libexec"
)

// File is the swap file inside the installed system, matching the fstab
// entry.
const File = "/swapfile"

// Step creates the swap file sized for the installed RAM. It runs inside the
// target.
func Step() install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "swap",
			Fn: func(ctx context.Context, _ *install.State) error {
				ramSize, err := partition.RAMSize()
				if err != nil {
					return err
				}
				return Create(ctx, File, partition.IdealSwapSize(ramSize))
			},
		})
		return nil
	}
}

// Create allocates and formats the swap file. fallocate keeps it unfragmented
// which the hibernation resume path depends on.
func Create(ctx context.Context, path string, size uint64) error {
	if err := libexec.Exec(ctx, exec.Command("fallocate",
		"-l", strconv.FormatUint(size, 10), path)); err != nil {
		return errors.Wrap(err, "allocating swap file failed")
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrap(libexec.Exec(ctx, exec.Command("mkswap", path)), "formatting swap file failed")
}
