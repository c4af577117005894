package main

import (
	"context"
	"fmt"
	"os"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"go.uber.org/zap"

	. "github.com/outofforest/bedrock" //nolint:stylecheck
	"github.com/outofforest/bedrock/pkg/chroot"
	"github.com/outofforest/bedrock/pkg/clock"
	"github.com/outofforest/bedrock/pkg/desktop"
	"github.com/outofforest/bedrock/pkg/firewall"
	"github.com/outofforest/bedrock/pkg/fstab"
	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/kernel"
	"github.com/outofforest/bedrock/pkg/netcheck"
	"github.com/outofforest/bedrock/pkg/notify"
	"github.com/outofforest/bedrock/pkg/partition"
	"github.com/outofforest/bedrock/pkg/progress"
	"github.com/outofforest/bedrock/pkg/report"
	"github.com/outofforest/bedrock/pkg/rootfs"
	"github.com/outofforest/bedrock/pkg/settings"
	"github.com/outofforest/bedrock/pkg/telemetry"
)

// Overridden at build time.
var version = "dev"

const targetDir = "/mnt/bedrock"

const usage = `bedrock - system installer

Usage:
  bedrock [flags]

Flags:
  -h, --help       print this help and exit
  -v, --version    print the version and exit
      --boot-time  first-boot installation: partition the drive automatically,
                   hide the live desktop and shield the network while installing
      --answers    path of the answers file (default ` + settings.DefaultAnswersPath + `)
`

func main() {
	var bootTime bool
	answersPath := settings.DefaultAnswersPath

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--help":
			fmt.Print(usage)
			return
		case "-v", "--version":
			fmt.Printf("bedrock %s\n", version)
			return
		case "--boot-time":
			bootTime = true
		case "--answers":
			i++
			if i == len(args) {
				fail("--answers requires a path")
			}
			answersPath = args[i]
		default:
			fail(fmt.Sprintf("unknown argument %q", args[i]))
		}
	}

	if os.Geteuid() != 0 {
		fail("bedrock must be run as root")
	}

	cfg, err := settings.Load(settings.DefaultPath)
	if err != nil {
		fail(err.Error())
	}
	answers, err := settings.LoadAnswers(answersPath)
	if err != nil {
		fail(err.Error())
	}

	var raid *partition.RAID
	rootDevice := answers.RootDevice
	if answers.RAID != nil {
		raid = &partition.RAID{
			Type:  answers.RAID.Type,
			Disks: answers.RAID.Disks,
		}
		if rootDevice == "" && len(raid.Disks) > 0 {
			rootDevice = raid.Disks[0]
		}
	}

	hub := progress.New()
	recorder := report.NewRecorder(answers.Hostname)
	link, err := progress.NewListener(func(e install.Event) {
		hub.Report(e)
		recorder.Observe(e)
	})
	if err != nil {
		fail(err.Error())
	}

	Main("bedrock",
		Params(install.Params{
			Language:     answers.Language,
			Timezone:     answers.Timezone,
			Username:     answers.Username,
			Hostname:     answers.Hostname,
			Password:     answers.Password,
			Extras:       answers.Extras,
			Updates:      answers.Updates,
			EFIPartition: answers.EFIPartition,
			RootDevice:   rootDevice,
			BootTime:     bootTime,
			Mirror:       cfg.Mirror,
		}),
		TargetDir(targetDir),
		OnEvent(recorder.Observe),
		Service("link", parallel.Fail, link.Run),
		progress.Service(cfg.ProgressPort, hub),
		telemetry.Service(cfg.Telemetry.RemoteWriteURL, answers.Hostname, hub.Gatherer()),
		Service("report", parallel.Continue, deliverReport(recorder, cfg)),
		If(bootTime,
			desktop.Immersion(),
			firewall.Shield(),
			kernel.Modules(
				kernel.Module{Name: "btrfs"},
				kernel.Module{Name: "vfat"},
			),
		),
		netcheck.Step(cfg.Mirror),
		clock.Step(clock.DefaultServer),
		If(bootTime,
			partition.Step(cfg.Partitioning, answers.Home, raid),
		),
		If(!bootTime,
			partition.Adopt(answers.Home),
		),
		rootfs.Steps(cfg.Squashfs),
		fstab.Step(),
		chroot.Step(link),
	)
}

// deliverReport writes, uploads and mails the installation report once the
// sequence is over, whichever way it ended. Delivery failures are logged and
// swallowed: the report must never turn a finished installation into a
// failed one.
func deliverReport(recorder *report.Recorder, cfg settings.Settings) parallel.Task {
	return func(ctx context.Context) error {
		<-ctx.Done()

		ctx = logger.WithLogger(context.Background(), logger.Get(ctx))
		log := logger.Get(ctx)
		rep := recorder.Report()

		if err := report.Write(report.DefaultPath, rep); err != nil {
			log.Warn("Storing report failed", zap.Error(err))
		}
		if rep.Code != install.CodeSuccess {
			if err := report.Diagnostic(cfg.LogPath, rep); err != nil {
				log.Warn("Writing diagnostic failed", zap.Error(err))
			}
		}
		if err := report.Upload(ctx, cfg.Report.SFTP, rep); err != nil {
			log.Warn("Uploading report failed", zap.Error(err))
		}
		if err := notify.Send(ctx, cfg.Report.Email, rep); err != nil {
			log.Warn("Mailing report failed", zap.Error(err))
		}
		return nil
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "bedrock: "+msg)
	os.Exit(1)
}
