package partition

import (
	"context"
	"os"
	"os/exec"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/settings"
	"github.com/outofforest/libexec"
	"github.com/outofforest/logger"
)

var partTypes = map[Role]gpt.Type{
	RoleBIOSBoot: gpt.BIOSBoot,
	RoleEFI:      gpt.EFISystemPartition,
	RoleRoot:     gpt.LinuxFilesystem,
	RoleHome:     gpt.LinuxFilesystem,
}

// Step partitions the installation drive automatically and records the
// resulting partitions in the sequence state. It replaces whatever is on the
// drive, so it is only wired into the OEM flow where the drive is dedicated.
func Step(config settings.Partitioning, home string, raid *RAID) install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "partition",
			Fn: func(ctx context.Context, s *install.State) error {
				if raid != nil {
					made, err := makeRAID(ctx, s, *raid, config)
					if err != nil {
						return err
					}
					if made {
						return nil
					}
					// The array could not be created, the installation
					// proceeds onto the root drive alone.
				}

				ramSize, err := RAMSize()
				if err != nil {
					return err
				}
				driveSize, err := driveSize(s.Params.RootDevice)
				if err != nil {
					return err
				}

				layout, err := Plan(Request{
					Device:  s.Params.RootDevice,
					Size:    driveSize,
					EFI:     BootedWithEFI(),
					Home:    home,
					RAMSize: ramSize,
					Config:  config,
				})
				if err != nil {
					return err
				}

				if err := Apply(ctx, layout); err != nil {
					return err
				}

				s.RootPartition = layout.Path(RoleRoot)
				s.HomePartition = layout.Path(RoleHome)
				if efi := layout.Path(RoleEFI); efi != "" {
					s.Params.EFIPartition = efi
				} else {
					s.Params.EFIPartition = install.EFIPartitionNULL
				}
				return nil
			},
		})
		return nil
	}
}

// makeRAID builds the btrfs array and records it in the sequence state. On a
// UEFI machine the first member is partitioned first so the EFI partition
// exists next to the array. A failed array creation is not fatal, the
// installation proceeds onto the first member alone.
func makeRAID(ctx context.Context, s *install.State, array RAID, config settings.Partitioning) (bool, error) {
	if err := array.Validate(); err != nil {
		return false, err
	}

	if BootedWithEFI() {
		size, err := driveSize(array.Disks[0])
		if err != nil {
			return false, err
		}
		layout, err := MemberLayout(array.Disks[0], size, config)
		if err != nil {
			return false, err
		}
		if err := Apply(ctx, layout); err != nil {
			return false, err
		}
		s.Params.EFIPartition = layout.Path(RoleEFI)
		array.Disks = append([]string{layout.Path(RoleRoot)}, array.Disks[1:]...)
	} else {
		s.Params.EFIPartition = install.EFIPartitionNULL
	}

	if err := array.Make(ctx); err != nil {
		logger.Get(ctx).Warn("Installing without the RAID array", zap.Error(err))
		return false, nil
	}
	s.RootPartition = array.Disks[0]
	return true, nil
}

// Adopt records an already partitioned layout in the sequence state, for
// installations where a frontend prepared the drive. home is an existing
// partition path or the NULL sentinel.
func Adopt(home string) install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "partition",
			Fn: func(_ context.Context, s *install.State) error {
				s.RootPartition = s.Params.RootDevice
				if strings.HasPrefix(home, "/dev/") {
					s.HomePartition = home
				}
				return nil
			},
		})
		return nil
	}
}

// BootedWithEFI tells whether the machine was booted through UEFI.
func BootedWithEFI() bool {
	_, err := os.Stat("/sys/firmware/efi")
	return err == nil
}

// Apply writes the planned GPT table to the drive and creates the
// filesystems.
func Apply(ctx context.Context, layout Layout) error {
	log := logger.Get(ctx)
	log.Info("Partitioning drive", zap.String("device", layout.Device))

	d, err := diskfs.Open(layout.Device, diskfs.WithOpenMode(diskfs.ReadWriteExclusive))
	if err != nil {
		return errors.WithStack(err)
	}

	sectorSize := uint64(d.LogicalBlocksize)
	parts := make([]*gpt.Partition, 0, len(layout.Parts))
	for _, p := range layout.Parts {
		parts = append(parts, &gpt.Partition{
			Start: p.Start / sectorSize,
			End:   p.End/sectorSize - 1,
			Type:  partTypes[p.Role],
			Name:  string(p.Role),
			GUID:  uuid.New().String(),
		})
	}

	err = d.Partition(&gpt.Table{
		LogicalSectorSize:  int(d.LogicalBlocksize),
		PhysicalSectorSize: int(d.PhysicalBlocksize),
		ProtectiveMBR:      true,
		Partitions:         parts,
	})
	if closeErr := d.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.WithStack(err)
	}

	// The kernel keeps serving the old table until told otherwise.
	if err := libexec.Exec(ctx, exec.Command("partprobe", layout.Device)); err != nil {
		return errors.WithStack(err)
	}

	for i, p := range layout.Parts {
		if p.FS == "" {
			continue
		}
		if err := mkfs(ctx, PartitionPath(layout.Device, i+1), p.FS); err != nil {
			return err
		}
	}
	return nil
}

func mkfs(ctx context.Context, device, fs string) error {
	var cmd *exec.Cmd
	if fs == FSFat32 {
		cmd = exec.Command("mkfs.fat", "-F", "32", device)
	} else {
		cmd = exec.Command("mkfs", "-t", fs, "-F", device)
	}
	return errors.Wrapf(libexec.Exec(ctx, cmd), "creating %s on %s failed", fs, device)
}

func driveSize(device string) (uint64, error) {
	d, err := diskfs.Open(device, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer d.Close()

	return uint64(d.Size), nil
}
