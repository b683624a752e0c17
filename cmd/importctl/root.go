package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammadpnp/rendimientos-admin/internal/bootstrap"
	"github.com/mohammadpnp/rendimientos-admin/internal/config"
	batchdomain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	infrafile "github.com/mohammadpnp/rendimientos-admin/internal/infrastructure/file"
)

// environment is what every subcommand needs once the database is open.
type environment struct {
	services *bootstrap.Services
	source   *infrafile.LocalSource
	window   int
	close    func()
}

type connectFunc func(ctx context.Context) (*environment, error)

func connect(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger(os.Stderr)

	db, pool, err := bootstrap.OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &environment{
		services: bootstrap.NewServices(cfg, db, pool, logger),
		source:   infrafile.NewLocalSource(cfg.Import.BaseDir, cfg.Import.MaxUpload),
		window:   cfg.ExpiringWithinDays,
		close:    pool.Close,
	}, nil
}

func newRootCmd(connect connectFunc, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "importctl",
		Short:         "Import users, contracts and yields from CSV or Excel files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.AddCommand(newImportCmd(batchdomain.EntityUsers, connect))
	cmd.AddCommand(newContractsCmd(connect))
	cmd.AddCommand(newImportCmd(batchdomain.EntityYields, connect))
	return cmd
}

func Execute() {
	if err := newRootCmd(connect, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
