package reminder

import (
	"github.com/spf13/cobra"
)

// ReminderCmd - родительская команда для локальных напоминаний
var ReminderCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Напоминания о приеме",
	Long: `Локальные напоминания о каждой предстоящей дозе.

Каждая синхронизация отменяет все запланированные напоминания и
планирует заново только будущие дозы, полученные с сервера.`,
}
