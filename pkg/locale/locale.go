package locale

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/libexec"
)

const (
	localeGenFile = "/etc/locale.gen"
	timezoneFile  = "/etc/timezone"
	localtimeLink = "/etc/localtime"
	zoneinfoDir   = "/usr/share/zoneinfo"
)

// Steps configures the system language and timezone. They run inside the
// target, the paths are absolute.
func Steps() install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(
			install.StepConfig{
				Name: "locale",
				Fn: func(ctx context.Context, s *install.State) error {
					return SetLanguage(ctx, s.Params.Language)
				},
			},
			install.StepConfig{
				Name: "timezone",
				Fn: func(_ context.Context, s *install.State) error {
					return SetTimezone(s.Params.Timezone)
				},
			},
		)
		return nil
	}
}

// SetLanguage enables the requested locale in locale.gen, generates it and
// makes it the system default.
func SetLanguage(ctx context.Context, language string) error {
	content, err := os.ReadFile(localeGenFile)
	if err != nil {
		return errors.WithStack(err)
	}

	enabled, found := Enable(string(content), language)
	if !found {
		return errors.Errorf("locale %q not known to locale.gen", language)
	}
	if err := os.WriteFile(localeGenFile, []byte(enabled), 0o644); err != nil {
		return errors.WithStack(err)
	}

	if err := libexec.Exec(ctx, exec.Command("locale-gen")); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(libexec.Exec(ctx, exec.Command("update-locale", "LANG="+language)))
}

// Enable uncomments the locale.gen line matching the locale. It reports
// whether a matching line was present.
func Enable(content, locale string) (string, bool) {
	lines := strings.Split(content, "\n")
	var found bool
	for i, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if trimmed == "" {
			continue
		}
		if name, _, _ := strings.Cut(trimmed, " "); name == locale {
			lines[i] = trimmed
			found = true
		}
	}
	return strings.Join(lines, "\n"), found
}

// SetTimezone points /etc/localtime at the requested zone.
func SetTimezone(timezone string) error {
	zonePath := filepath.Join(zoneinfoDir, timezone)
	if _, err := os.Stat(zonePath); err != nil {
		return errors.Wrapf(err, "unknown timezone %q", timezone)
	}

	if err := os.Remove(localtimeLink); err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}
	if err := os.Symlink(zonePath, localtimeLink); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(timezoneFile, []byte(timezone+"\n"), 0o644))
}
