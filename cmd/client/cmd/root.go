// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"medtracker/cmd/client/cmd/types"
	"medtracker/internal/app/client"
	"medtracker/internal/app/client/config"
	"medtracker/internal/utils/logger"
)

var (
	cfgFile    string
	debug      bool
	jsonOutput bool
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "medtracker",
	Short: "MedTracker - клиент для учета лекарств и напоминаний о приеме",
	Long: `MedTracker хранит список ваших лекарств, показывает историю приема
и планирует локальные напоминания о каждой предстоящей дозе.

Напоминания пересобираются после добавления лекарства, по команде
"medtracker reminder sync" и периодически агентом (medtracker-agent).`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg := config.MustLoad(cfgFile)

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	// В терминале по умолчанию показываем только предупреждения
	level := cfg.LogLevel
	switch {
	case debug:
		level = slog.LevelDebug.String()
	case level == "":
		level = slog.LevelWarn.String()
	}
	log := logger.NewWithLevel(cfg.Env, level)

	app, err := client.New(cfg, log, client.WithPrompter(client.TerminalPrompter(os.Stdin, os.Stdout)))
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func closeApp(cmd *cobra.Command, _ []string) error {
	app, err := types.App(cmd)
	if err != nil {
		return nil
	}
	return app.Close()
}

func init() {
	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (по умолчанию ~/.medtracker/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера MedTracker (host:port)")
}
