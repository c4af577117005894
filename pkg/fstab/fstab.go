package fstab

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/install"
)

const byUUIDDir = "/dev/disk/by-uuid"

// Entry is a single fstab line.
type Entry struct {
	Source     string
	Target     string
	FSType     string
	Options    string
	Dump       int
	PassNumber int
}

// Step writes /etc/fstab inside the target, referring to partitions by UUID
// so device renumbering across boots does not break mounting.
func Step() install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "fstab",
			Fn: func(_ context.Context, s *install.State) error {
				entries, err := Entries(s, uuidOf)
				if err != nil {
					return err
				}
				return Write(filepath.Join(s.TargetDir, "etc/fstab"), entries)
			},
		})
		return nil
	}
}

// Entries builds the fstab entries for the installed system. resolve maps a
// partition device to its filesystem UUID.
func Entries(s *install.State, resolve func(device string) (string, error)) ([]Entry, error) {
	root := s.RootPartition
	if root == "" {
		root = s.Params.RootDevice
	}

	rootUUID, err := resolve(root)
	if err != nil {
		return nil, err
	}
	entries := []Entry{{
		Source:     "UUID=" + rootUUID,
		Target:     "/",
		FSType:     "auto",
		Options:    "defaults",
		PassNumber: 1,
	}}

	if s.Params.EFIPartition != install.EFIPartitionNULL {
		efiUUID, err := resolve(s.Params.EFIPartition)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Source:     "UUID=" + efiUUID,
			Target:     "/boot/efi",
			FSType:     "vfat",
			Options:    "umask=0077",
			PassNumber: 2,
		})
	}

	if s.HomePartition != "" {
		homeUUID, err := resolve(s.HomePartition)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Source:     "UUID=" + homeUUID,
			Target:     "/home",
			FSType:     "auto",
			Options:    "defaults",
			PassNumber: 2,
		})
	}

	entries = append(entries, Entry{
		Source:  "/swapfile",
		Target:  "none",
		FSType:  "swap",
		Options: "sw",
	})

	return entries, nil
}

// Write renders entries to the given path.
func Write(path string, entries []Entry) error {
	var sb strings.Builder
	sb.WriteString("# /etc/fstab: static file system information.\n")
	sb.WriteString("# <file system> <mount point> <type> <options> <dump> <pass>\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%d\t%d\n",
			e.Source, e.Target, e.FSType, e.Options, e.Dump, e.PassNumber)
	}
	return errors.WithStack(os.WriteFile(path, []byte(sb.String()), 0o644))
}

// uuidOf resolves a partition device to its filesystem UUID by scanning the
// by-uuid symlinks.
func uuidOf(device string) (string, error) {
	deviceReal, err := filepath.EvalSymlinks(device)
	if err != nil {
		return "", errors.WithStack(err)
	}

	links, err := os.ReadDir(byUUIDDir)
	if err != nil {
		return "", errors.WithStack(err)
	}
	for _, l := range links {
		target, err := filepath.EvalSymlinks(filepath.Join(byUUIDDir, l.Name()))
		if err != nil {
			continue
		}
		if target == deviceReal {
			return l.Name(), nil
		}
	}
	return "", errors.Errorf("no filesystem UUID found for %s", device)
}
