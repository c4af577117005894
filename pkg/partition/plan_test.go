package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/settings"
)

var testConfig = settings.Partitioning{
	EFISizeMB:       200,
	MinRootSizeMB:   23000,
	SmallDriveGB:    32,
	HomeThresholdGB: 128,
}

const (
	testGB  = 1_000_000_000
	testGiB = 1 << 30
)

func TestIdealSwapSize(t *testing.T) {
	// 4 GiB of RAM gets 4 GiB of swap plus 2 GiB of hibernation headroom.
	require.Equal(t, uint64(6*testGiB), IdealSwapSize(4*testGiB))
	// 16 GiB gets 4 GiB of headroom.
	require.Equal(t, uint64(20*testGiB), IdealSwapSize(16*testGiB))
}

func TestMinRootSizeIncludesSwap(t *testing.T) {
	size := MinRootSize(4*testGiB, testConfig)
	require.Equal(t, uint64(23000*1_000_000)+IdealSwapSize(4*testGiB), size)
}

func TestPlanEFIWithHome(t *testing.T) {
	layout, err := Plan(Request{
		Device:  "/dev/sda",
		Size:    500 * testGB,
		EFI:     true,
		Home:    HomeMake,
		RAMSize: 8 * testGiB,
		Config:  testConfig,
	})
	require.NoError(t, err)
	require.Len(t, layout.Parts, 3)

	efi := layout.Part(RoleEFI)
	require.Equal(t, FSFat32, efi.FS)
	require.EqualValues(t, alignment, efi.Start)
	require.Zero(t, efi.End%alignment)
	require.InDelta(t, 200*1_000_000, efi.End-efi.Start, alignment)

	// Root is capped at 35% of a drive large enough for a home partition.
	root := layout.Part(RoleRoot)
	require.Equal(t, uint64(500*testGB*35/100)/alignment*alignment, root.End)

	home := layout.Part(RoleHome)
	require.Equal(t, root.End, home.Start)
	require.Greater(t, home.End, home.Start)

	require.Equal(t, "/dev/sda2", layout.Path(RoleRoot))
	require.Equal(t, "/dev/sda3", layout.Path(RoleHome))
}

func TestPlanMidSizeDriveUsesMinRoot(t *testing.T) {
	// Between the small drive limit and the home threshold the root
	// partition is kept at the minimum size and home takes the rest.
	layout, err := Plan(Request{
		Device:  "/dev/sda",
		Size:    64 * testGB,
		EFI:     true,
		Home:    HomeMake,
		RAMSize: 4 * testGiB,
		Config:  testConfig,
	})
	require.NoError(t, err)

	root := layout.Part(RoleRoot)
	require.GreaterOrEqual(t, root.End-root.Start, MinRootSize(4*testGiB, testConfig))
	home := layout.Part(RoleHome)
	require.Equal(t, root.End, home.Start)
	require.NotEmpty(t, layout.Path(RoleHome))
}

func TestPlanSmallDriveSkipsHome(t *testing.T) {
	layout, err := Plan(Request{
		Device:  "/dev/sda",
		Size:    32 * testGB,
		EFI:     true,
		Home:    HomeMake,
		RAMSize: 4 * testGiB,
		Config:  testConfig,
	})
	require.NoError(t, err)
	require.Len(t, layout.Parts, 2)
	require.Empty(t, layout.Path(RoleHome))
}

func TestPlanNoHome(t *testing.T) {
	for _, home := range []string{"", "NULL", "null"} {
		layout, err := Plan(Request{
			Device:  "/dev/sda",
			Size:    500 * testGB,
			EFI:     true,
			Home:    home,
			RAMSize: 4 * testGiB,
			Config:  testConfig,
		})
		require.NoError(t, err)
		require.Len(t, layout.Parts, 2)
		require.Empty(t, layout.Path(RoleHome))
	}
}

func TestPlanRejectsHomeOnInstallDrive(t *testing.T) {
	// Repartitioning the drive would destroy the home data the user asked
	// to keep.
	for _, tc := range []struct {
		device string
		home   string
	}{
		{device: "/dev/sda", home: "/dev/sda3"},
		{device: "/dev/nvme0n1", home: "/dev/nvme0n1p3"},
	} {
		_, err := Plan(Request{
			Device:  tc.device,
			Size:    500 * testGB,
			EFI:     true,
			Home:    tc.home,
			RAMSize: 4 * testGiB,
			Config:  testConfig,
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "installation drive")
	}
}

func TestPlanReusedHome(t *testing.T) {
	layout, err := Plan(Request{
		Device:  "/dev/sda",
		Size:    500 * testGB,
		EFI:     true,
		Home:    "/dev/sdb1",
		RAMSize: 4 * testGiB,
		Config:  testConfig,
	})
	require.NoError(t, err)
	require.Len(t, layout.Parts, 2)
	require.Equal(t, "/dev/sdb1", layout.Path(RoleHome))
}

func TestPlanBIOSGetsBootPartition(t *testing.T) {
	layout, err := Plan(Request{
		Device:  "/dev/sda",
		Size:    500 * testGB,
		EFI:     false,
		Home:    HomeNone,
		RAMSize: 4 * testGiB,
		Config:  testConfig,
	})
	require.NoError(t, err)
	require.Equal(t, RoleBIOSBoot, layout.Parts[0].Role)
	require.Empty(t, layout.Path(RoleEFI))
	require.Equal(t, "/dev/sda2", layout.Path(RoleRoot))
}

func TestPlanRejectsTinyDrive(t *testing.T) {
	_, err := Plan(Request{
		Device:  "/dev/sda",
		Size:    100 * 1_000_000,
		EFI:     true,
		Home:    HomeNone,
		RAMSize: 4 * testGiB,
		Config:  testConfig,
	})
	require.Error(t, err)
}

func TestPlanRejectsInvalidHome(t *testing.T) {
	_, err := Plan(Request{
		Device:  "/dev/sda",
		Size:    500 * testGB,
		EFI:     true,
		Home:    "sdb1",
		RAMSize: 4 * testGiB,
		Config:  testConfig,
	})
	require.Error(t, err)
}

func TestPartitionPath(t *testing.T) {
	require.Equal(t, "/dev/sda1", PartitionPath("/dev/sda", 1))
	require.Equal(t, "/dev/nvme0n1p2", PartitionPath("/dev/nvme0n1", 2))
	require.Equal(t, "/dev/mmcblk0p1", PartitionPath("/dev/mmcblk0", 1))
}

func TestDriveOf(t *testing.T) {
	require.Equal(t, "/dev/sda", DriveOf("/dev/sda2"))
	require.Equal(t, "/dev/nvme0n1", DriveOf("/dev/nvme0n1p2"))
	require.Equal(t, "/dev/mmcblk0", DriveOf("/dev/mmcblk0p1"))
	require.Equal(t, "/dev/vda", DriveOf("/dev/vda12"))

	// Whole drives come back unchanged, even when the name ends with a
	// digit.
	require.Equal(t, "/dev/sda", DriveOf("/dev/sda"))
	require.Equal(t, "/dev/nvme0n1", DriveOf("/dev/nvme0n1"))
	require.Equal(t, "/dev/mmcblk0", DriveOf("/dev/mmcblk0"))
}
