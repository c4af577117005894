package firewall

import (
	"context"

	"github.com/google/nftables"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

const tableName = "bedrock"

// Shield drops inbound connections for the duration of an unattended
// installation. The live session runs with default credentials, nothing
// should be able to reach it. The ruleset is removed on teardown so the
// installed system starts clean.
func Shield() install.Configurator {
	return func(c *install.Configuration) error {
		c.StartServices(install.ServiceConfig{
			Name:   "shield",
			OnExit: parallel.Continue,
			TaskFn: func(ctx context.Context) error {
				if err := Apply(); err != nil {
					return err
				}
				logger.Get(ctx).Info("Inbound shield applied", zap.String("table", tableName))

				<-ctx.Done()

				if err := Remove(); err != nil {
					logger.Get(ctx).Warn("Removing inbound shield failed", zap.Error(err))
				}
				return nil
			},
		})
		return nil
	}
}

// Apply installs an input chain dropping everything except loopback traffic
// and replies to connections the installer opened itself.
func Apply() error {
	conn, err := nftables.New()
	if err != nil {
		return errors.WithStack(err)
	}

	table := conn.AddTable(&nftables.Table{
		Family: nftables.TableFamilyINet,
		Name:   tableName,
	})

	policy := nftables.ChainPolicyDrop
	input := conn.AddChain(&nftables.Chain{
		Name:     "input",
		Table:    table,
		Type:     nftables.ChainTypeFilter,
		Hooknum:  nftables.ChainHookInput,
		Priority: nftables.ChainPriorityFilter,
		Policy:   &policy,
	})

	conn.AddRule(&nftables.Rule{
		Table: table,
		Chain: input,
		Exprs: expressions(
			incomingInterface("lo"),
			accept(),
		),
	})
	conn.AddRule(&nftables.Rule{
		Table: table,
		Chain: input,
		Exprs: expressions(
			connectionEstablished(),
			accept(),
		),
	})

	return errors.WithStack(conn.Flush())
}

// Remove drops the shield table.
func Remove() error {
	conn, err := nftables.New()
	if err != nil {
		return errors.WithStack(err)
	}

	conn.DelTable(&nftables.Table{
		Family: nftables.TableFamilyINet,
		Name:   tableName,
	})

	return errors.WithStack(conn.Flush())
}
