package bootloader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/install"
)

func TestInstallArgsEFI(t *testing.T) {
	args := InstallArgs("/dev/sda1", "/dev/sda2")
	require.Contains(t, args, "--target=x86_64-efi")
	require.Contains(t, args, "--efi-directory=/boot/efi")
	require.NotContains(t, args, "/dev/sda")
}

func TestInstallArgsBIOS(t *testing.T) {
	args := InstallArgs(install.EFIPartitionNULL, "/dev/sda2")
	require.Equal(t, []string{"--target=i386-pc", "--recheck", "/dev/sda"}, args)
}

func TestInstallArgsBIOSWholeDrive(t *testing.T) {
	// Adopted layouts may carry the whole drive as the root device.
	args := InstallArgs(install.EFIPartitionNULL, "/dev/nvme0n1")
	require.Equal(t, []string{"--target=i386-pc", "--recheck", "/dev/nvme0n1"}, args)
}
