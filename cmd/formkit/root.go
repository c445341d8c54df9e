package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formkit/cmd/formkit/config"
	loglib "github.com/goliatone/go-formkit/pkg/log"
	"github.com/goliatone/go-formkit/pkg/log/zerolog"
)

// Version is the formkit version reported by getInfo when app.version is
// not configured.
var (
	Version = "development"
	Env     string
)

type cli struct {
	v   *viper.Viper
	cfg *config.Config
}

// Prepare builds the command tree around a fresh viper instance.
func Prepare() *cobra.Command {
	c := &cli{v: config.New()}

	rootCmd := &cobra.Command{
		Use:          "formkit",
		Short:        "Serial number field, app info and template export plugins",
		SilenceUsage: true,
		Version:      version(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.v, c.v.GetString("config"))
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			c.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", ".yaml or .json config file to use with formkit if any")
	rootCmd.PersistentFlags().String("log-level", "info", "log level. One of trace, debug, info, warn, error")
	c.v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	c.v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(c.serveCmd())
	rootCmd.AddCommand(c.describeCmd())
	rootCmd.AddCommand(c.rulesCmd())
	rootCmd.AddCommand(c.patternsCmd())
	rootCmd.AddCommand(c.templateCmd())
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	return Prepare().Execute()
}

func (c *cli) logger() loglib.Logger {
	return zerolog.NewStdLogger(os.Stderr, c.cfg.Log.Level)
}

func withSignalWatcher(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(),
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGQUIT)
		defer cancel()
		return fn(ctx, cmd, args)
	}
}

func version() string {
	if Env != "" {
		return Env + " (" + Version + ")"
	}
	return Version
}
