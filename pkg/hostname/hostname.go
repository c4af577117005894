package hostname

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/install"
)

const (
	hostnameFile = "/etc/hostname"
	hostsFile    = "/etc/hosts"
)

var validHostname = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// Step sets the machine hostname. It runs inside the target.
func Step() install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "hostname",
			Fn: func(_ context.Context, s *install.State) error {
				return Set(s.Params.Hostname)
			},
		})
		return nil
	}
}

// Set writes /etc/hostname and the loopback entries in /etc/hosts.
func Set(hostname string) error {
	if !validHostname.MatchString(hostname) {
		return errors.Errorf("invalid hostname %q", hostname)
	}

	if err := os.WriteFile(hostnameFile, []byte(hostname+"\n"), 0o644); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(hostsFile, []byte(Hosts(hostname)), 0o644))
}

// Hosts renders the hosts file for the given hostname.
func Hosts(hostname string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "127.0.0.1\tlocalhost\n")
	fmt.Fprintf(&sb, "127.0.1.1\t%s\n", hostname)
	sb.WriteString("\n::1\tlocalhost ip6-localhost ip6-loopback\n")
	sb.WriteString("ff02::1\tip6-allnodes\n")
	sb.WriteString("ff02::2\tip6-allrouters\n")
	return sb.String()
}
