// cmd/client/cmd/auth/login.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	"medtracker/internal/domain/reminder"
	"medtracker/internal/domain/user"
)

var skipSync bool

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему MedTracker",
	Long: `Аутентификация на сервере MedTracker.

После входа токен сохраняется локально для последующих команд,
а напоминания о приеме пересобираются по данным сервера.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Вход в систему ===")
		fmt.Println()

		email := readLine("Email: ")

		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}

		fmt.Println("Аутентификация...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		session, err := app.Users().Login(ctx, user.Credentials{Email: email, Password: password})
		switch {
		case errors.Is(err, user.ErrInvalidAuth):
			return errors.New("неверный email или пароль")
		case err != nil:
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Println()
		fmt.Println("✅ Вход выполнен успешно!")
		if !session.ExpiresAt.IsZero() {
			fmt.Printf("Сессия действует до %s\n", session.ExpiresAt.Local().Format("02.01.2006 15:04"))
		}

		if skipSync {
			return nil
		}

		fmt.Println("Синхронизация напоминаний...")
		result, err := app.SyncReminders(ctx)
		switch {
		case errors.Is(err, reminder.ErrNotPhysicalDevice), errors.Is(err, reminder.ErrPermissionDenied):
			fmt.Printf("⚠️  Напоминания отключены: %v\n", err)
		case err != nil:
			fmt.Printf("⚠️  Предупреждение: ошибка синхронизации: %v\n", err)
			fmt.Println("Повторите позже: medtracker reminder sync")
		case !result.Complete():
			fmt.Printf("⚠️  Синхронизация завершена с ошибками (%d)\n", len(result.Errors))
		default:
			fmt.Printf("✓ Запланировано напоминаний: %d\n", result.Scheduled)
		}

		return nil
	},
}

func init() {
	LoginCmd.Flags().BoolVar(&skipSync, "no-sync", false, "не пересобирать напоминания после входа")
}
