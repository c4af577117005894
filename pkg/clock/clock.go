package clock

import (
	"context"
	"os/exec"
	"time"

	"github.com/beevik/ntp"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/libexec"
	"github.com/outofforest/logger"
)

// DefaultServer is the NTP pool queried when none is configured.
const DefaultServer = "pool.ntp.org"

// Step synchronises the system clock before anything touches the network:
// TLS handshakes to the mirror fail on machines whose RTC drifted too far.
// Without network the step is a no-op, time stays as it is.
func Step(server string) install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "clock",
			Fn: func(ctx context.Context, s *install.State) error {
				if !s.NetworkAvailable {
					logger.Get(ctx).Info("Skipping time synchronisation, network not available")
					return nil
				}
				return Sync(ctx, server)
			},
		})
		return nil
	}
}

// Sync sets the system time from NTP and writes it back to the hardware
// clock.
func Sync(ctx context.Context, server string) error {
	if server == "" {
		server = DefaultServer
	}

	resp, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: 10 * time.Second})
	if err != nil {
		return errors.Wrapf(err, "querying NTP server %q failed", server)
	}
	if err := resp.Validate(); err != nil {
		return errors.Wrapf(err, "NTP response from %q is invalid", server)
	}

	now := time.Now().Add(resp.ClockOffset)
	if err := setSystemTime(now); err != nil {
		return err
	}

	logger.Get(ctx).Info("Clock synchronised",
		zap.String("server", server), zap.Duration("offset", resp.ClockOffset))

	return errors.Wrap(libexec.Exec(ctx, exec.Command("hwclock", "--systohc")),
		"storing time in hardware clock failed")
}

func setSystemTime(t time.Time) error {
	tv := unix.NsecToTimeval(t.UnixNano())
	return errors.WithStack(unix.Settimeofday(&tv))
}
