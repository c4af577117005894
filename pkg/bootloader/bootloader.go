package bootloader

import (
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/partition"
	"github.com/outofforest/libexec"
)

const efiDir = "/boot/efi"

// Step installs GRUB and generates its configuration. It runs inside the
// target. A real EFI partition routes through the EFI loader, the NULL
// sentinel means a BIOS machine and GRUB goes into the drive's boot code.
func Step() install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "bootloader",
			Fn: func(ctx context.Context, s *install.State) error {
				root := s.RootPartition
				if root == "" {
					root = s.Params.RootDevice
				}
				if err := Install(ctx, s.Params.EFIPartition, root); err != nil {
					return err
				}
				return errors.WithStack(libexec.Exec(ctx, exec.Command("update-grub")))
			},
		})
		return nil
	}
}

// Install runs grub-install for the boot mode implied by the EFI partition
// parameter.
func Install(ctx context.Context, efiPartition, rootPartition string) error {
	if efiPartition != install.EFIPartitionNULL {
		if err := os.MkdirAll(efiDir, 0o755); err != nil {
			return errors.WithStack(err)
		}
		if err := libexec.Exec(ctx, exec.Command("mount", efiPartition, efiDir)); err != nil {
			return errors.Wrapf(err, "mounting EFI partition %s failed", efiPartition)
		}
	}
	return errors.Wrap(libexec.Exec(ctx, exec.Command("grub-install", InstallArgs(efiPartition, rootPartition)...)),
		"installing GRUB failed")
}

// InstallArgs returns the grub-install arguments for the boot mode implied
// by the EFI partition parameter.
func InstallArgs(efiPartition, rootPartition string) []string {
	if efiPartition != install.EFIPartitionNULL {
		return []string{
			"--target=x86_64-efi",
			"--efi-directory=" + efiDir,
			"--bootloader-id=bedrock",
			"--recheck",
		}
	}
	return []string{"--target=i386-pc", "--recheck", partition.DriveOf(rootPartition)}
}
