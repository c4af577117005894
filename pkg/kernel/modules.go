package kernel

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/libexec"
)

var loadedModules = map[string]struct{}{}

// Module describes module to load.
type Module struct {
	Name   string
	Params string
}

// Modules loads kernel modules before the sequence starts. The installer
// media kernel ships filesystem and RAID support as loadable modules, not
// built-ins, so they have to be pulled in explicitly.
func Modules(modules ...Module) install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "kernel",
			Fn: func(ctx context.Context, _ *install.State) error {
				for _, m := range modules {
					if err := LoadModule(ctx, m); err != nil {
						return err
					}
				}
				return nil
			},
		})
		return nil
	}
}

// LoadModule loads kernel module with its dependencies.
func LoadModule(ctx context.Context, module Module) error {
	module.Name = strings.ReplaceAll(module.Name, "-", "_")
	if _, exists := loadedModules[module.Name]; exists {
		return nil
	}

	args := []string{module.Name}
	if module.Params != "" {
		args = append(args, strings.Fields(module.Params)...)
	}
	if err := libexec.Exec(ctx, exec.Command("modprobe", args...)); err != nil {
		return errors.Wrapf(err, "loading module %q failed", module.Name)
	}

	loadedModules[module.Name] = struct{}{}

	return nil
}
