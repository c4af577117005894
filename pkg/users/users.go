package users

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/libexec"
)

// Groups granted to the primary user.
var Groups = []string{"adm", "cdrom", "sudo", "dip", "plugdev", "lpadmin"}

var validUsername = regexp.MustCompile(`^[a-z_][a-z0-9_-]*\$?$`)

// Step creates the primary user account. It runs inside the target.
func Step() install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "users",
			Fn: func(ctx context.Context, s *install.State) error {
				if err := Create(ctx, s.Params.Username, s.Params.Password); err != nil {
					return err
				}
				return LockRoot(ctx)
			},
		})
		return nil
	}
}

// Create adds the user with the standard desktop groups and sets the
// password. The password goes through chpasswd's stdin, never through the
// process argument list.
func Create(ctx context.Context, username, password string) error {
	if !validUsername.MatchString(username) {
		return errors.Errorf("invalid username %q", username)
	}

	if err := libexec.Exec(ctx, exec.Command("useradd",
		"--create-home",
		"--shell", "/bin/bash",
		"--groups", strings.Join(Groups, ","),
		username,
	)); err != nil {
		return errors.Wrapf(err, "creating user %q failed", username)
	}

	cmd := exec.Command("chpasswd")
	cmd.Stdin = strings.NewReader(username + ":" + password + "\n")
	return errors.Wrapf(libexec.Exec(ctx, cmd), "setting password for %q failed", username)
}

// LockRoot disables direct root logins, administration goes through sudo.
func LockRoot(ctx context.Context) error {
	return errors.WithStack(libexec.Exec(ctx, exec.Command("passwd", "--lock", "root")))
}
