package partition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRAIDValidateDriveCounts(t *testing.T) {
	for raidType, minDisks := range raidMinDisks {
		disks := make([]string, minDisks-1)
		for i := range disks {
			disks[i] = "/dev/null"
		}
		require.Error(t, RAID{Type: raidType, Disks: disks}.Validate(), raidType)

		disks = append(disks, "/dev/null")
		require.NoError(t, RAID{Type: raidType, Disks: disks}.Validate(), raidType)
	}
}

func TestRAIDValidateRejectsUnknownType(t *testing.T) {
	require.Error(t, RAID{Type: "raid2", Disks: []string{"/dev/null", "/dev/null"}}.Validate())
}

func TestRAIDValidateRejectsTooManyRAID5Disks(t *testing.T) {
	disks := make([]string, raid5MaxDisks+1)
	for i := range disks {
		disks[i] = "/dev/null"
	}
	require.Error(t, RAID{Type: "raid5", Disks: disks}.Validate())
}

func TestRAIDValidateRejectsMissingDisk(t *testing.T) {
	require.Error(t, RAID{
		Type:  "raid0",
		Disks: []string{"/dev/null", "/dev/does-not-exist"},
	}.Validate())
}

func TestMemberLayoutCarriesEFIPartition(t *testing.T) {
	// A UEFI machine still needs an EFI partition when the root filesystem
	// is a btrfs array, it goes in front of the first member.
	layout, err := MemberLayout("/dev/sda", 500*testGB, testConfig)
	require.NoError(t, err)
	require.Len(t, layout.Parts, 2)

	efi := layout.Part(RoleEFI)
	require.Equal(t, FSFat32, efi.FS)
	require.InDelta(t, 200*1_000_000, efi.End-efi.Start, alignment)

	member := layout.Part(RoleRoot)
	require.Equal(t, efi.End, member.Start)
	require.Greater(t, member.End, member.Start)
	// mkfs.btrfs claims the member, no filesystem is made on it.
	require.Empty(t, member.FS)

	require.Equal(t, "/dev/sda1", layout.Path(RoleEFI))
	require.Equal(t, "/dev/sda2", layout.Path(RoleRoot))
}

func TestMemberLayoutRejectsTinyDrive(t *testing.T) {
	_, err := MemberLayout("/dev/sda", 100*1_000_000, testConfig)
	require.Error(t, err)
}

func TestRAIDCommand(t *testing.T) {
	cmd := RAID{Type: "raid10", Disks: []string{"/dev/sda", "/dev/sdb", "/dev/sdc", "/dev/sdd"}}.command(false)
	require.Equal(t, []string{
		"mkfs.btrfs", "-d", "raid10", "-m", "raid10", "/dev/sda", "/dev/sdb", "/dev/sdc", "/dev/sdd",
	}, cmd.Args)

	cmd = RAID{Type: "raid5", Disks: []string{"/dev/sda", "/dev/sdb", "/dev/sdc"}}.command(true)
	require.Equal(t, []string{
		"mkfs.btrfs", "-f", "-d", "raid5", "/dev/sda", "/dev/sdb", "/dev/sdc",
	}, cmd.Args)
}
