package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medtracker/internal/app/client"
	"medtracker/internal/domain/user"
)

type contextKey string

// ClientAppKey - ключ, под которым root кладет *client.App в контекст команды.
const ClientAppKey contextKey = "app"

// App достает приложение из контекста команды.
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, errors.New("приложение не инициализировано")
	}
	return app, nil
}

// JSONOutput сообщает, что пользователь попросил вывод в JSON (--json).
func JSONOutput(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("json")
	return err == nil && v
}

func PrintJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WrapAuth добавляет подсказку о входе к ошибкам сессии.
func WrapAuth(err error) error {
	if user.IsAuthError(err) || errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%w\nВыполните вход: medtracker auth login", err)
	}
	return err
}
