package fstab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/install"
)

func testResolver(t *testing.T, uuids map[string]string) func(string) (string, error) {
	return func(device string) (string, error) {
		uuid, ok := uuids[device]
		require.True(t, ok, device)
		return uuid, nil
	}
}

func TestEntriesEFIWithHome(t *testing.T) {
	s := &install.State{
		Params:        install.Params{EFIPartition: "/dev/sda1"},
		RootPartition: "/dev/sda2",
		HomePartition: "/dev/sda3",
	}
	entries, err := Entries(s, testResolver(t, map[string]string{
		"/dev/sda1": "AAAA-BBBB",
		"/dev/sda2": "11111111-2222-3333-4444-555555555555",
		"/dev/sda3": "66666666-7777-8888-9999-000000000000",
	}))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	require.Equal(t, "/", entries[0].Target)
	require.Equal(t, "UUID=11111111-2222-3333-4444-555555555555", entries[0].Source)
	require.Equal(t, 1, entries[0].PassNumber)

	require.Equal(t, "/boot/efi", entries[1].Target)
	require.Equal(t, "vfat", entries[1].FSType)

	require.Equal(t, "/home", entries[2].Target)

	require.Equal(t, "swap", entries[3].FSType)
	require.Equal(t, "/swapfile", entries[3].Source)
}

func TestEntriesBIOSWithoutHome(t *testing.T) {
	s := &install.State{
		Params:        install.Params{EFIPartition: install.EFIPartitionNULL},
		RootPartition: "/dev/sda2",
	}
	entries, err := Entries(s, testResolver(t, map[string]string{
		"/dev/sda2": "11111111-2222-3333-4444-555555555555",
	}))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "/", entries[0].Target)
	require.Equal(t, "swap", entries[1].FSType)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fstab")
	require.NoError(t, Write(path, []Entry{
		{Source: "UUID=abcd", Target: "/", FSType: "ext4", Options: "defaults", PassNumber: 1},
	}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "UUID=abcd\t/\text4\tdefaults\t0\t1\n")
}
