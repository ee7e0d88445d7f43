package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jzx17/gothreadpool/internal/config"
	"github.com/jzx17/gothreadpool/internal/server"
	"github.com/jzx17/gothreadpool/pkg/types"
	"github.com/jzx17/gothreadpool/pkg/worker"
)

type serveOptions struct {
	addr       string
	workers    int
	sleepDelay time.Duration
	pagesDir   string
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept connections and handle them on the thread pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd, func(c *config.Config) {
				flags := cmd.Flags()
				if flags.Changed("addr") {
					c.Addr = opts.addr
				}
				if flags.Changed("workers") {
					c.Workers = opts.workers
				}
				if flags.Changed("sleep") {
					c.SleepDelay = opts.sleepDelay
				}
				if flags.Changed("pages") {
					c.PagesDir = opts.pagesDir
				}
			})
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), root, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "127.0.0.1:7878", "Address to listen on")
	cmd.Flags().IntVar(&opts.workers, "workers", 5, fmt.Sprintf("Number of workers (%d-%d)", types.MinPoolSize, types.MaxPoolSize))
	cmd.Flags().DurationVar(&opts.sleepDelay, "sleep", 5*time.Second, "Delay before answering /sleep requests")
	cmd.Flags().StringVar(&opts.pagesDir, "pages", "", "Directory of page templates overriding the built-in pages")

	return cmd
}

func runServe(ctx context.Context, root *rootOptions, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := root.newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	pages, err := server.LoadPages(cfg.PagesDir)
	if err != nil {
		return err
	}

	handler, err := server.NewHandler(server.HandlerConfig{
		Pages:          pages,
		SleepDelay:     cfg.SleepDelay,
		ReadBufferSize: cfg.ReadBufferSize,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	pool, err := worker.NewFixedThreadPool(&worker.FixedThreadPoolConfig{
		PoolSize: cfg.Workers,
		Logger:   log,
		PanicHandler: func(perr *types.JobPanicError) {
			log.WithField("worker_id", perr.WorkerID).Errorf("Connection handler faulted: %v", perr.Value)
		},
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	serveErr := server.New(pool, handler, log).ListenAndServe(ctx, cfg.Addr)
	if serveErr == nil {
		log.Info("Received shutdown signal, draining connections...")
	}
	return serveErr
}
