package medication

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	"medtracker/internal/domain/medication"
)

var StockAddCmd = &cobra.Command{
	Use:   "add <id> <количество>",
	Short: "Пополнить запас лекарства",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("количество должно быть целым числом: %q", args[1])
		}

		err = app.Medications().AddStock(cmd.Context(), args[0], quantity)
		switch {
		case errors.Is(err, medication.ErrInvalidQuantity):
			return errors.New("количество должно быть больше нуля")
		case err != nil:
			return types.WrapAuth(fmt.Errorf("ошибка пополнения запаса: %w", err))
		}

		fmt.Printf("✅ Запас пополнен на %d\n", quantity)
		return nil
	},
}
