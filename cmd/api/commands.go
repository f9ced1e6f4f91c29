package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"animal-rfid-relay/internal/platform/config"
	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/logger"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "animal-rfid-relay",
		Short:         "Lookup de tags RFID con notificaciones y live feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "archivo de config opcional (yaml/toml/json)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Levanta el API HTTP (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Crea la tabla animals si no existe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), flags)
		},
	})

	return root
}

func setup(flags *rootFlags) (config.Config, logger.Logger, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		// todavía no hay config de logging
		logger.NewFromEnv().Error("config", map[string]any{"err": errs.Loggable(err)})
		return config.Config{}, nil, err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	return cfg, log, nil
}

func runServe(ctx context.Context, flags *rootFlags) error {
	cfg, log, err := setup(flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(orBackground(ctx), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"err": errs.Loggable(err)})
		return err
	}
	return nil
}

func runMigrate(ctx context.Context, flags *rootFlags) error {
	cfg, log, err := setup(flags)
	if err != nil {
		return err
	}

	st, err := openStore(orBackground(ctx), cfg, log, true)
	if err != nil {
		log.Error("migrate failed", map[string]any{"err": errs.Loggable(err)})
		return err
	}
	defer st.Close()

	log.Info("migrations applied", map[string]any{"driver": cfg.Database.Driver})
	return nil
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
