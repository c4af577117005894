package desktop

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/libexec"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

const panelProcess = "xfce4-panel"

// Immersion hides the desktop around the OEM first-boot installer and brings
// it back once the sequence finished for any reason. Wired as a service, the
// restore happens on the group teardown.
func Immersion() install.Configurator {
	return func(c *install.Configuration) error {
		c.StartServices(install.ServiceConfig{
			Name:   "immersion",
			OnExit: parallel.Continue,
			TaskFn: func(ctx context.Context) error {
				if err := Enable(ctx); err != nil {
					// The installer works fine on a bare session, a failed
					// immersion is not worth stopping the sequence.
					logger.Get(ctx).Warn("Enabling immersion failed", zap.Error(err))
					return nil
				}

				<-ctx.Done()

				if err := Disable(logger.WithLogger(context.Background(), logger.Get(ctx))); err != nil {
					logger.Get(ctx).Warn("Disabling immersion failed", zap.Error(err))
				}
				return nil
			},
		})
		return nil
	}
}

// Enable hides desktop icons and stops the panel.
func Enable(ctx context.Context) error {
	if err := setDesktopIconStyle(ctx, "0"); err != nil {
		return err
	}

	pids, err := findProcesses(panelProcess)
	if err != nil {
		return err
	}
	for _, pid := range pids {
		if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
			return errors.WithStack(err)
		}
	}
	return nil
}

// Disable restores desktop icons and restarts the panel.
func Disable(ctx context.Context) error {
	cmd := exec.Command(panelProcess)
	if err := cmd.Start(); err != nil {
		return errors.WithStack(err)
	}
	// The panel daemonizes itself, the direct child is not waited for.
	go func() {
		_ = cmd.Wait()
	}()

	return setDesktopIconStyle(ctx, "2")
}

func setDesktopIconStyle(ctx context.Context, style string) error {
	return errors.WithStack(libexec.Exec(ctx, exec.Command("xfconf-query",
		"--channel", "xfce4-desktop",
		"--property", "/desktop-icons/style",
		"--set", style,
	)))
}

// findProcesses returns the PIDs of processes with the given command name,
// read from /proc.
func findProcesses(name string) ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var pids []int
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		comm, err := os.ReadFile(filepath.Join("/proc", e.Name(), "comm"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(comm)) == name {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}
