package partition

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/settings"
)

// Home parameter sentinels.
const (
	// HomeNone means no home partition is wanted and none exists.
	HomeNone = "NULL"

	// HomeMake means a home partition is created on the installation drive.
	HomeMake = "MAKE"
)

// Filesystems assigned to planned partitions.
const (
	FSExt4  = "ext4"
	FSFat32 = "fat32"
)

// Role of a planned partition.
type Role string

// Roles.
const (
	RoleBIOSBoot Role = "bios-boot"
	RoleEFI      Role = "efi"
	RoleRoot     Role = "root"
	RoleHome     Role = "home"
)

const (
	// Partition boundaries are aligned to 1 MiB.
	alignment = 1 << 20

	// GRUB's core image lives here on BIOS machines, GPT has no post-MBR gap
	// to embed it in.
	biosBootSize = 1 << 20

	gb = 1_000_000_000
	mb = 1_000_000
	gi = 1 << 30
)

// Spec describes one partition to create.
type Spec struct {
	Role Role
	// Start and End are byte offsets on the drive, End exclusive.
	Start uint64
	End   uint64
	FS    string
}

// Layout is a complete plan for the installation drive.
type Layout struct {
	Device string
	Parts  []Spec

	// ReusedHome is set when an existing partition on another drive serves
	// as home.
	ReusedHome string
}

// Request describes the drive and the wanted layout.
type Request struct {
	// Device is the installation drive, /dev/sda or /dev/nvme0n1 style.
	Device string

	// Size is the drive capacity in bytes.
	Size uint64

	// EFI tells whether the machine booted through UEFI.
	EFI bool

	// Home is HomeNone, HomeMake or the path of an existing partition.
	Home string

	// RAMSize is the installed memory in bytes, used for the swap heuristic.
	RAMSize uint64

	Config settings.Partitioning
}

// IdealSwapSize returns the swap file size for the given amount of RAM:
// the RAM itself plus the square root of its size in GiB, so hibernation
// fits with headroom.
func IdealSwapSize(ramSize uint64) uint64 {
	return ramSize + uint64(math.Round(math.Sqrt(float64(ramSize)/gi)*gi))
}

// MinRootSize returns the smallest acceptable root partition: the configured
// base plus the ideal swap file.
func MinRootSize(ramSize uint64, config settings.Partitioning) uint64 {
	return config.MinRootSizeMB*mb + IdealSwapSize(ramSize)
}

// Plan computes the partition layout for the installation drive. It never
// touches the drive.
func Plan(req Request) (Layout, error) {
	if req.Device == "" {
		return Layout{}, errors.New("installation drive not specified")
	}

	layout := Layout{Device: req.Device}

	var offset uint64 = alignment
	if req.EFI {
		end := align(req.Config.EFISizeMB * mb)
		layout.Parts = append(layout.Parts, Spec{
			Role:  RoleEFI,
			Start: offset,
			End:   end,
			FS:    FSFat32,
		})
		offset = end
	} else {
		end := offset + biosBootSize
		layout.Parts = append(layout.Parts, Spec{
			Role:  RoleBIOSBoot,
			Start: offset,
			End:   end,
		})
		offset = end
	}

	driveEnd := alignDown(req.Size) - alignment
	if driveEnd <= offset {
		return Layout{}, errors.Errorf("drive %s is too small", req.Device)
	}

	home := req.Home
	if home == "" || strings.EqualFold(home, HomeNone) {
		home = HomeNone
	}

	// Drives at or below the limiter are too small to split, the root
	// partition takes everything regardless of the home request.
	small := req.Size <= req.Config.SmallDriveGB*gb

	switch {
	case home == HomeMake && !small:
		var rootEnd uint64
		if req.Size >= req.Config.HomeThresholdGB*gb {
			rootEnd = alignDown(req.Size * 35 / 100)
		} else {
			rootEnd = align(offset + MinRootSize(req.RAMSize, req.Config))
		}
		if rootEnd >= driveEnd {
			return Layout{}, errors.Errorf("drive %s leaves no room for home", req.Device)
		}
		layout.Parts = append(layout.Parts,
			Spec{Role: RoleRoot, Start: offset, End: rootEnd, FS: FSExt4},
			Spec{Role: RoleHome, Start: rootEnd, End: driveEnd, FS: FSExt4},
		)
	case home != HomeNone && home != HomeMake:
		if !strings.HasPrefix(home, "/dev/") {
			return Layout{}, errors.Errorf("invalid home partition %q", home)
		}
		// A home partition on the installation drive would be wiped together
		// with the rest of the drive.
		if DriveOf(home) == req.Device {
			return Layout{}, errors.Errorf("home partition %s is on the installation drive %s, refusing to repartition it",
				home, req.Device)
		}
		layout.Parts = append(layout.Parts,
			Spec{Role: RoleRoot, Start: offset, End: driveEnd, FS: FSExt4})
		layout.ReusedHome = home
	default:
		layout.Parts = append(layout.Parts,
			Spec{Role: RoleRoot, Start: offset, End: driveEnd, FS: FSExt4})
	}

	if root := layout.Part(RoleRoot); root.End-root.Start < MinRootSize(req.RAMSize, req.Config) && !small {
		return Layout{}, errors.Errorf("root partition on %s would be below the minimum size", req.Device)
	}

	return layout, nil
}

// Part returns the planned partition with the given role.
func (l Layout) Part(role Role) Spec {
	for _, p := range l.Parts {
		if p.Role == role {
			return p
		}
	}
	return Spec{}
}

// Path returns the device path of the planned partition with the given role.
func (l Layout) Path(role Role) string {
	for i, p := range l.Parts {
		if p.Role == role {
			return PartitionPath(l.Device, i+1)
		}
	}
	if role == RoleHome {
		return l.ReusedHome
	}
	return ""
}

// PartitionPath returns the device path of the n-th partition on a drive,
// honoring the NVMe naming scheme.
func PartitionPath(device string, n int) string {
	if strings.Contains(device, "nvme") || strings.Contains(device, "mmcblk") {
		return device + "p" + strconv.Itoa(n)
	}
	return device + strconv.Itoa(n)
}

var nvmePartSuffix = regexp.MustCompile(`p[0-9]+$`)

// DriveOf returns the whole drive a partition belongs to. Whole-drive paths
// come back unchanged, NVMe and MMC drive names end with a digit themselves.
func DriveOf(device string) string {
	if strings.Contains(device, "nvme") || strings.Contains(device, "mmcblk") {
		if suffix := nvmePartSuffix.FindString(device); suffix != "" {
			return strings.TrimSuffix(device, suffix)
		}
		return device
	}
	return strings.TrimRight(device, "0123456789")
}

func align(offset uint64) uint64 {
	return (offset + alignment - 1) / alignment * alignment
}

func alignDown(offset uint64) uint64 {
	return offset / alignment * alignment
}
