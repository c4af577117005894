package partition

import (
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/settings"
	"github.com/outofforest/libexec"
	"github.com/outofforest/logger"
)

// RAID describes a btrfs RAID array spanning several drives.
type RAID struct {
	// Type is raid0, raid1, raid5, raid6 or raid10.
	Type string

	// Disks are the member drives.
	Disks []string
}

var raidMinDisks = map[string]int{
	"raid0":  2,
	"raid1":  2,
	"raid5":  3,
	"raid6":  4,
	"raid10": 4,
}

const raid5MaxDisks = 16

// Validate checks the array against btrfs drive count requirements.
func (r RAID) Validate() error {
	minDisks, ok := raidMinDisks[r.Type]
	if !ok {
		return errors.Errorf("%q is not a valid btrfs RAID type", r.Type)
	}
	if len(r.Disks) < minDisks {
		return errors.Errorf("not enough disks for %s, %d required", r.Type, minDisks)
	}
	if r.Type == "raid5" && len(r.Disks) > raid5MaxDisks {
		return errors.Errorf("too many disks for raid5, at most %d supported", raid5MaxDisks)
	}
	for _, d := range r.Disks {
		if _, err := os.Stat(d); err != nil {
			return errors.Wrapf(err, "RAID member %s not found", d)
		}
	}
	return nil
}

// MemberLayout plans the first member drive of an array on a UEFI machine:
// the EFI partition sits in front of a partition the array is built from.
// The member partition gets no filesystem, mkfs.btrfs claims it.
func MemberLayout(device string, size uint64, config settings.Partitioning) (Layout, error) {
	espEnd := align(config.EFISizeMB * mb)
	end := alignDown(size) - alignment
	if espEnd >= end {
		return Layout{}, errors.Errorf("drive %s is too small", device)
	}
	return Layout{
		Device: device,
		Parts: []Spec{
			{Role: RoleEFI, Start: alignment, End: espEnd, FS: FSFat32},
			{Role: RoleRoot, Start: espEnd, End: end},
		},
	}, nil
}

// Make creates the array. Drives carrying stale filesystem signatures make
// mkfs.btrfs refuse, so a failed attempt is retried with force.
func (r RAID) Make(ctx context.Context) error {
	if err := r.Validate(); err != nil {
		return err
	}

	if err := libexec.Exec(ctx, r.command(false)); err != nil {
		logger.Get(ctx).Warn("RAID array creation failed, forcing", zap.Error(err))
		return errors.Wrap(libexec.Exec(ctx, r.command(true)), "forced RAID array creation failed")
	}
	return nil
}

func (r RAID) command(force bool) *exec.Cmd {
	args := []string{}
	if force {
		args = append(args, "-f")
	}
	args = append(args, "-d", r.Type)
	// Metadata is only mirrored for profiles with full copies, parity
	// profiles keep the metadata default.
	if r.Type == "raid1" || r.Type == "raid10" {
		args = append(args, "-m", r.Type)
	}
	args = append(args, r.Disks...)
	return exec.Command("mkfs.btrfs", args...)
}
