package chroot

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/progress"
	"github.com/outofforest/bedrock/pkg/rootfs"
)

// Step hands the sequence over to the target-side process and unmounts the
// target once it is done. The nine positional arguments carry the
// installation answers; progress streams back over the link and the printed
// ordinals pass through on the inherited stdout.
//
// Declare it as the last step. The ordinals printed by the target-side
// sequence continue right after the step declared here, so anything declared
// later would clash with them.
func Step(link *progress.Listener) install.Configurator {
	return func(c *install.Configuration) error {
		offset := c.StepCount() + 1
		c.AddSteps(install.StepConfig{
			Name: "system",
			Fn: func(ctx context.Context, s *install.State) error {
				if err := Enter(s.TargetDir); err != nil {
					return err
				}
				defer func() {
					_ = Leave(s.TargetDir)
				}()

				root := s.RootPartition
				if root == "" {
					root = s.Params.RootDevice
				}

				err := Exec(ctx, s.TargetDir,
					[]string{
						progress.EnvLinkAddr + "=" + link.Addr(),
						progress.EnvProgressOffset + "=" + strconv.Itoa(offset),
						EnvNetwork + "=" + strconv.FormatBool(s.NetworkAvailable),
					},
					s.Params.Language,
					s.Params.Timezone,
					s.Params.Username,
					s.Params.Hostname,
					s.Params.Password,
					strconv.FormatBool(s.Params.Extras),
					strconv.FormatBool(s.Params.Updates),
					s.Params.EFIPartition,
					root,
				)
				if err != nil {
					return errors.Wrap(err, "target-side process failed")
				}

				if result := link.Result(); result.Received && result.Code != install.CodeSuccess {
					return errors.Errorf("target-side sequence failed with status %d: %s",
						result.Code, result.Error)
				}

				if err := Leave(s.TargetDir); err != nil {
					return err
				}
				return rootfs.Unmount(ctx, s)
			},
		})
		return nil
	}
}
