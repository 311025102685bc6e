// cmd/client/cmd/init.go
package cmd

import (
	"medtracker/cmd/client/cmd/auth"
	"medtracker/cmd/client/cmd/history"
	"medtracker/cmd/client/cmd/medication"
	"medtracker/cmd/client/cmd/reminder"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.StatusCmd)

	rootCmd.AddCommand(medication.MedicationCmd)
	medication.MedicationCmd.AddCommand(medication.ListCmd)
	medication.MedicationCmd.AddCommand(medication.CreateCmd)
	medication.MedicationCmd.AddCommand(medication.StockCmd)
	medication.StockCmd.AddCommand(medication.StockAddCmd)

	rootCmd.AddCommand(history.HistoryCmd)

	rootCmd.AddCommand(reminder.ReminderCmd)
	reminder.ReminderCmd.AddCommand(reminder.SyncCmd)
	reminder.ReminderCmd.AddCommand(reminder.ListCmd)
	reminder.ReminderCmd.AddCommand(reminder.RegisterCmd)
	reminder.ReminderCmd.AddCommand(reminder.StatusCmd)
}
