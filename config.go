package bedrock

import (
	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/parallel"
)

// Deployment converts an inlined plan into a slice.
func Deployment(configurators ...install.Configurator) []install.Configurator {
	return configurators
}

// Join combines many configurators into a single one.
func Join(configurators ...install.Configurator) install.Configurator {
	return func(c *install.Configuration) error {
		for _, configurator := range configurators {
			if err := configurator(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// If applies configurators only when the condition is true.
func If(condition bool, configurators ...install.Configurator) install.Configurator {
	if !condition {
		return func(c *install.Configuration) error {
			return nil
		}
	}
	return Join(configurators...)
}

// Params sets the installation parameters.
func Params(params install.Params) install.Configurator {
	return func(c *install.Configuration) error {
		c.SetParams(params)
		return nil
	}
}

// TargetDir sets where the new system is mounted during installation.
func TargetDir(dir string) install.Configurator {
	return func(c *install.Configuration) error {
		c.SetTargetDir(dir)
		return nil
	}
}

// ProgressOffset shifts the ordinals of the declared steps. The target-side
// sequence continues the launcher's numbering.
func ProgressOffset(offset int) install.Configurator {
	return func(c *install.Configuration) error {
		c.SetProgressOffset(offset)
		return nil
	}
}

// NetworkAvailable seeds the reachability flag instead of probing. The
// target-side sequence inherits the launcher's check result.
func NetworkAvailable(available bool) install.Configurator {
	return func(c *install.Configuration) error {
		c.SetNetworkAvailable(available)
		return nil
	}
}

// Step declares a single sequence step.
func Step(name string, fn install.StepFn) install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: name,
			Fn:   fn,
		})
		return nil
	}
}

// Service starts a background service running alongside the sequence.
func Service(name string, onExit parallel.OnExit, task parallel.Task) install.Configurator {
	return func(c *install.Configuration) error {
		c.StartServices(install.ServiceConfig{
			Name:   name,
			OnExit: onExit,
			TaskFn: task,
		})
		return nil
	}
}

// OnEvent registers sequence event reporters.
func OnEvent(reporters ...install.ReporterFn) install.Configurator {
	return func(c *install.Configuration) error {
		c.OnEvent(reporters...)
		return nil
	}
}
