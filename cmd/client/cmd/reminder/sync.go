// cmd/client/cmd/reminder/sync.go
package reminder

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	domain "medtracker/internal/domain/reminder"
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Пересобрать напоминания",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		result, err := app.SyncReminders(cmd.Context())
		switch {
		case errors.Is(err, domain.ErrNotPhysicalDevice):
			return errors.New("напоминания работают только на физическом устройстве (DEVICE_PHYSICAL)")
		case errors.Is(err, domain.ErrPermissionDenied):
			return errors.New("нет разрешения на уведомления. Выполните: medtracker reminder register")
		case errors.Is(err, domain.ErrSourceFetch):
			return types.WrapAuth(fmt.Errorf("сервер недоступен, прежние напоминания сохранены: %w", err))
		case err != nil:
			return fmt.Errorf("ошибка синхронизации: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(result)
		}

		fmt.Println("✅ Синхронизация завершена!")
		fmt.Printf("Время выполнения: %v\n", result.Duration.Round(time.Millisecond))
		fmt.Printf("Получено доз: %d\n", result.Fetched)
		fmt.Printf("Отменено: %d\n", result.Cancelled)
		fmt.Printf("Запланировано: %d\n", result.Scheduled)
		fmt.Printf("Пропущено прошедших: %d\n", result.Skipped)

		if !result.Complete() {
			fmt.Println()
			fmt.Printf("⚠️  Ошибки (%d):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Printf("  %s %s: %s\n", e.Operation, e.Identifier, e.Error)
			}
		}
		return nil
	},
}
