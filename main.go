package bedrock

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/logger"
	"github.com/outofforest/run"
)

// Main is the entrypoint of the installer processes. The banner goes to
// stderr, stdout carries nothing but the step ordinals.
func Main(appName string, configurators ...install.Configurator) {
	run.New().Run(context.Background(), appName, func(ctx context.Context) error {
		fmt.Fprint(os.Stderr, banner)

		err := install.Run(ctx, configurators...)
		if errors.Is(err, ctx.Err()) {
			err = nil
		}
		if err != nil {
			logger.Get(ctx).Error("Installation failed", zap.Error(err))
		}
		return err
	})
}
