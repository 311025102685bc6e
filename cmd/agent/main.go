package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"medtracker/internal/app/agent"
	"medtracker/internal/app/client"
	"medtracker/internal/app/client/config"
	"medtracker/internal/infrastructure/storage/sqlite"
	"medtracker/internal/utils/logger"
)

// store объединяет напоминания и журнал проходов для агента.
type store struct {
	*sqlite.NotificationStore
	*sqlite.SyncJournal
}

var configFile string

var rootCmd = &cobra.Command{
	Use:   "medtracker-agent",
	Short: "Агент напоминаний MedTracker",
	Long: `Фоновый процесс: периодически пересобирает напоминания, показывает
наступившие напоминания в терминале и отдает локальный HTTP API.`,
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "конфигурационный файл")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := config.MustLoad(configFile)
	log := logger.NewWithLevel(cfg.Env, cfg.LogLevel)

	app, err := client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации клиента: %w", err)
	}
	defer app.Close()

	agentCfg := agent.Config{
		Address:          cfg.AgentAddress,
		DispatchInterval: cfg.DispatchInterval,
		SyncPeriod:       cfg.SyncPeriod(),
		Locale:           cfg.Locale,
	}
	deliverer := agent.NewTerminalDeliverer(os.Stdout, app.Locale())
	a := agent.New(agentCfg, store{app.Notifications(), app.Journal()}, app, app.Medications(), deliverer, log)

	log.Info("starting reminder agent",
		slog.String("env", cfg.Env),
		slog.String("server", cfg.ServerAddress),
		slog.String("address", cfg.AgentAddress),
	)
	if err := a.Run(cmd.Context()); err != nil {
		return err
	}

	log.Info("agent stopped")
	return nil
}
