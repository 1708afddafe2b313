package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"quota-service/internal/biz"
	"quota-service/internal/conf"

	"github.com/fatih/color"
	"github.com/gaoyong06/go-pkg/logger"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		assumeYes  bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "quota-sweeper",
		Short: "Remove invalid price estimates",
		Long: `quota-sweeper removes price estimates that can no longer be trusted:
estimates of unregistered scope types, estimates without scope and details,
and months where the project, service or resource tier is empty.
Every pass shows how many estimates it will delete and asks for confirmation.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if bc.Sweeper != nil && bc.Sweeper.AssumeYes {
				assumeYes = true
			}

			app, cleanup, err := wireApp(bc, newLogger())
			if err != nil {
				return err
			}
			defer cleanup()

			confirm := biz.AssumeYes
			if !assumeYes {
				confirm = newPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			reports, err := app.events.RunSweeper(ctx, confirm)
			printReports(cmd.OutOrStdout(), reports)
			if err != nil {
				color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "sweep failed: %v\n", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "conf", "c", "../../configs/config.yaml", "config path, eg: -conf config.yaml")
	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Delete without asking for confirmation")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "Maximum duration of the whole sweep")
	return cmd
}

// SweeperApp 清理工具应用结构
type SweeperApp struct {
	events eventRunner
}

type eventRunner interface {
	RunSweeper(ctx context.Context, confirm biz.ConfirmFunc) ([]*biz.SweepReport, error)
}

func loadConfig(path string) (*conf.Bootstrap, error) {
	c := config.New(
		config.WithSource(
			file.NewSource(path),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		return nil, fmt.Errorf("scan config %s: %w", path, err)
	}
	return &bc, nil
}

func newLogger() log.Logger {
	// 交互式工具只输出到控制台
	l := logger.NewLogger(&logger.Config{
		Level:         "warn",
		Format:        "json",
		Output:        "stdout",
		EnableConsole: true,
	})
	return log.With(l,
		"ts", log.DefaultTimestamp,
		"service.name", "quota-sweeper",
	)
}
