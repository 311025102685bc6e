package medication

import (
	"github.com/spf13/cobra"
)

// MedicationCmd - родительская команда для работы с лекарствами
var MedicationCmd = &cobra.Command{
	Use:     "medication",
	Aliases: []string{"med"},
	Short:   "Управление лекарствами",
	Long:    `Список лекарств, добавление нового лекарства и пополнение запаса.`,
}

// StockCmd - операции с запасом лекарства
var StockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Управление запасом",
}
