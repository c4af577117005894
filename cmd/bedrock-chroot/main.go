package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/outofforest/parallel"

	. "github.com/outofforest/bedrock" //nolint:stylecheck
	"github.com/outofforest/bedrock/pkg/apt"
	"github.com/outofforest/bedrock/pkg/bootloader"
	"github.com/outofforest/bedrock/pkg/chroot"
	"github.com/outofforest/bedrock/pkg/hostname"
	"github.com/outofforest/bedrock/pkg/initramfs"
	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/locale"
	"github.com/outofforest/bedrock/pkg/progress"
	"github.com/outofforest/bedrock/pkg/swap"
	"github.com/outofforest/bedrock/pkg/users"
)

var (
	// extrasPackages are the restricted codecs and fonts installed when the
	// user opted in.
	extrasPackages = []string{
		"ubuntu-restricted-extras",
		"ubuntu-restricted-addons",
	}

	// purgePackages are live-session leftovers removed from the installed
	// system.
	purgePackages = []string{
		"live-boot",
		"live-boot-initramfs-tools",
		"bedrock-installer",
	}
)

func main() {
	// Positional parameters: language, timezone, username, hostname,
	// password, extras flag, updates flag, EFI partition or NULL, root
	// device.
	if len(os.Args) != 10 {
		fail(fmt.Sprintf("expected 9 arguments, got %d", len(os.Args)-1))
	}

	extras, err := strconv.ParseBool(os.Args[6])
	if err != nil {
		fail("extras flag: " + err.Error())
	}
	updates, err := strconv.ParseBool(os.Args[7])
	if err != nil {
		fail("updates flag: " + err.Error())
	}

	offset := 0
	if v := os.Getenv(progress.EnvProgressOffset); v != "" {
		if offset, err = strconv.Atoi(v); err != nil {
			fail(progress.EnvProgressOffset + ": " + err.Error())
		}
	}
	network := false
	if v := os.Getenv(chroot.EnvNetwork); v != "" {
		if network, err = strconv.ParseBool(v); err != nil {
			fail(chroot.EnvNetwork + ": " + err.Error())
		}
	}
	linkAddr := os.Getenv(progress.EnvLinkAddr)

	client := progress.NewClient()

	Main("bedrock-chroot",
		Params(install.Params{
			Language:     os.Args[1],
			Timezone:     os.Args[2],
			Username:     os.Args[3],
			Hostname:     os.Args[4],
			Password:     os.Args[5],
			Extras:       extras,
			Updates:      updates,
			EFIPartition: os.Args[8],
			RootDevice:   os.Args[9],
		}),
		ProgressOffset(offset),
		NetworkAvailable(network),
		If(linkAddr != "",
			OnEvent(client.Reporter()),
			Service("link", parallel.Fail, func(ctx context.Context) error {
				return client.Run(ctx, linkAddr)
			}),
		),
		locale.Steps(),
		hostname.Step(),
		users.Step(),
		swap.Step(),
		apt.Steps(extrasPackages, purgePackages),
		bootloader.Step(),
		initramfs.Step(),
	)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "bedrock-chroot: "+msg)
	os.Exit(1)
}
