package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/jzx17/gothreadpool/internal/loadgen"
)

func newLoadCommand(root *rootOptions) *cobra.Command {
	var (
		url     string
		number  int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Hit the server with concurrent GET requests, every other one to /sleep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			log, err := root.newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			report, err := loadgen.Run(cmd.Context(), loadgen.Config{
				BaseURL:  url,
				Requests: number,
				Timeout:  timeout,
				Logger:   log,
			})
			if err != nil {
				return err
			}

			codes := make([]int, 0, len(report.StatusCounts))
			for code := range report.StatusCounts {
				codes = append(codes, code)
			}
			sort.Ints(codes)
			for _, code := range codes {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %d\n", code, report.StatusCounts[code])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "errors: %d\nduration: %v\n", len(report.Errors), report.Duration)

			if len(report.Errors) > 0 {
				return fmt.Errorf("%d of %d requests failed", len(report.Errors), number)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "http://127.0.0.1:7878", "The base of the target url")
	cmd.Flags().IntVarP(&number, "number", "n", 100, "Number of GET requests to send")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Per-request timeout")

	return cmd
}
