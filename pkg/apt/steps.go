package apt

import (
	"context"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/logger"
)

// Steps wires the package operations into the sequence. Everything network
// bound is gated on the reachability check: an offline machine installs from
// the seed alone and the steps turn into no-ops.
func Steps(extras []string, purge []string) install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(
			install.StepConfig{
				Name: "apt-update",
				Fn: func(ctx context.Context, s *install.State) error {
					if !s.NetworkAvailable {
						logger.Get(ctx).Info("Skipping package index refresh, network not available")
						return nil
					}
					return Update(ctx)
				},
			},
			install.StepConfig{
				Name: "extras",
				Fn: func(ctx context.Context, s *install.State) error {
					if !s.Params.Extras {
						return nil
					}
					if !s.NetworkAvailable {
						logger.Get(ctx).Info("Skipping extras, network not available")
						return nil
					}
					return Install(ctx, extras...)
				},
			},
			install.StepConfig{
				Name: "updates",
				Fn: func(ctx context.Context, s *install.State) error {
					if !s.Params.Updates {
						return nil
					}
					if !s.NetworkAvailable {
						logger.Get(ctx).Info("Skipping updates, network not available")
						return nil
					}
					return Upgrade(ctx)
				},
			},
			install.StepConfig{
				Name: "cleanup",
				Fn: func(ctx context.Context, _ *install.State) error {
					if err := Purge(ctx, purge...); err != nil {
						return err
					}
					return AutoRemove(ctx)
				},
			},
		)
		return nil
	}
}
