package reminder

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	domain "medtracker/internal/domain/reminder"
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Разрешить уведомления",
	Long: `Запрашивает разрешение на уведомления и настраивает канал
напоминаний (на android). Если разрешение уже выдано, повторно не спрашивает.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		capability, err := app.RegisterNotifications(cmd.Context())
		switch {
		case errors.Is(err, domain.ErrNotPhysicalDevice):
			return errors.New("уведомления недоступны на эмуляторе")
		case errors.Is(err, domain.ErrPermissionDenied):
			fmt.Println("Разрешение не выдано. Напоминания планироваться не будут.")
			return nil
		case err != nil:
			return fmt.Errorf("ошибка регистрации уведомлений: %w", err)
		}

		fmt.Println("✅ Уведомления разрешены")
		fmt.Printf("Канал: %s (%s)\n", capability.ChannelID, capability.Platform)
		return nil
	},
}
