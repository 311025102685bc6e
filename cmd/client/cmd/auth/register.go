// cmd/client/cmd/auth/register.go
package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	"medtracker/internal/domain/user"
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать нового пользователя",
	Long: `Создание учетной записи на сервере MedTracker.

Пароль должен содержать минимум 8 символов.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Регистрация нового пользователя ===")
		fmt.Println()

		name := readLine("Имя: ")

		email := readLine("Email: ")

		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}
		repeated, err := readPassword("Повторите пароль: ")
		if err != nil {
			return err
		}

		fmt.Println("Регистрация...")
		err = app.Users().Register(cmd.Context(), user.RegisterRequest{
			Name:             name,
			Email:            email,
			Password:         password,
			RepeatedPassword: repeated,
		})
		switch {
		case errors.Is(err, user.ErrAlreadyExists):
			return fmt.Errorf("пользователь с email %s уже зарегистрирован", email)
		case err != nil:
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		fmt.Println()
		fmt.Println("✅ Регистрация успешно завершена!")
		fmt.Println("Теперь вы можете войти в систему: medtracker auth login")

		return nil
	},
}
