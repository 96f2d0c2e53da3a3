package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/store"
)

// options are the flags shared by every command
type options struct {
	storeDriver string
	storeDSN    string
	dev         bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "nexusd",
		Short:         "Nexus OS desktop backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.storeDriver, "store-driver", "", "Node store driver: sqlite or postgres (default from STORE_DRIVER)")
	root.PersistentFlags().StringVar(&opts.storeDSN, "store-dsn", "", "Node store DSN (default from STORE_DSN)")
	root.PersistentFlags().BoolVar(&opts.dev, "dev", false, "Development logging (colored, debug level)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newTreeCmd(opts))
	root.AddCommand(newImportCmd(opts))
	return root
}

// loadConfig reads the environment and applies the shared flags over it
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.storeDriver != "" {
		cfg.Store.Driver = o.storeDriver
	}
	if o.storeDSN != "" {
		cfg.Store.DSN = o.storeDSN
	}
	if o.dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// logger builds the logger for the offline commands
func (o *options) logger(cfg *config.Config) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
}

// openStore opens and migrates the configured node store
func (o *options) openStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*store.Store, error) {
	s, err := store.Open(ctx, store.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN}, logger.Component("store"))
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
