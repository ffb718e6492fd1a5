// Package admin implements the gophnotes operator CLI: schema migrations,
// account provisioning, role and activation changes, and pruning of the
// revocation ledger. Commands talk to storage directly, not over HTTP.
package admin

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/spf13/cobra"
)

// Env is what the commands operate on. Close releases every connection
// opened for it.
type Env struct {
	Manager  repomanager.RepositoryManager
	Users    *services.UserService
	Sessions *services.SessionService
	Close    func() error
}

// Opener builds an Env for a loaded configuration.
type Opener func(ctx context.Context, cfg *config.Config) (*Env, error)

// OpenEnv opens the storage and ledger backends named by cfg.
func OpenEnv(ctx context.Context, cfg *config.Config) (*Env, error) {
	m, err := server.OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rdb, err := server.OpenRedis(ctx, cfg)
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	svc := server.NewServices(cfg, m, server.SelectLedger(cfg, m, rdb), logging.Nop{})

	return &Env{
		Manager:  m,
		Users:    svc.Users,
		Sessions: svc.Sessions,
		Close: func() error {
			err := m.Close()
			if rdb != nil {
				err = errors.Join(err, rdb.Close())
			}
			return err
		},
	}, nil
}

type cli struct {
	open       Opener
	configPath string
	env        *Env
}

// NewRootCmd returns the gophnotes-admin command tree. open is called once,
// lazily, before the first subcommand runs.
func NewRootCmd(open Opener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:           "gophnotes-admin",
		Short:         "Operator tools for a gophnotes deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadBase(c.configPath)
			if err != nil {
				return err
			}
			env, err := c.open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			c.env = env
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.env == nil || c.env.Close == nil {
				return nil
			}
			return c.env.Close()
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to JSON config file")

	root.AddCommand(
		c.migrateCmd(),
		c.createUserCmd(),
		c.setRoleCmd(),
		c.setActiveCmd(),
		c.pruneCmd(),
	)
	return root
}
