package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	"medtracker/internal/domain/user"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние сессии",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		session, err := app.Users().Status()
		if types.JSONOutput(cmd) && (err == nil || errors.Is(err, user.ErrNotLoggedIn)) {
			return types.PrintJSON(session)
		}

		switch {
		case errors.Is(err, user.ErrNotLoggedIn):
			fmt.Println("Вы не вошли в систему. Выполните: medtracker auth login")
			return nil
		case errors.Is(err, user.ErrSessionExpired):
			fmt.Println("Сессия истекла. Выполните: medtracker auth login")
			return nil
		case err != nil:
			return err
		}

		fmt.Println("✓ Вы вошли в систему")
		if session.Subject != "" {
			fmt.Printf("Пользователь: %s\n", session.Subject)
		}
		if !session.ExpiresAt.IsZero() {
			fmt.Printf("Сессия действует до %s\n", session.ExpiresAt.Local().Format("02.01.2006 15:04"))
		}
		return nil
	},
}
