// Package cli wires configuration, logging, the thread pool and the server into cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jzx17/gothreadpool/internal/config"
	"github.com/jzx17/gothreadpool/internal/logger"
)

type rootOptions struct {
	configPath string
	logLevel   string
	out        io.Writer
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand(os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree, logging to out
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}

	rootCmd := &cobra.Command{
		Use:           "httpserver",
		Short:         "Serve HTTP requests from a fixed-size thread pool",
		Long:          `A small HTTP server whose connections are handled by a fixed set of worker goroutines, plus a load generator to exercise it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newLoadCommand(opts))

	return rootCmd
}

// loadConfig resolves the configuration and applies flag overrides
func (o *rootOptions) loadConfig(cmd *cobra.Command, override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if override != nil {
		override(cfg)
	}
	return cfg, nil
}

func (o *rootOptions) newLogger(level string) (*logrus.Logger, error) {
	return logger.New(level, o.out)
}
