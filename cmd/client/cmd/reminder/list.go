package reminder

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	"medtracker/internal/domain/dose"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Запланированные напоминания",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		reminders, err := app.Notifications().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка чтения напоминаний: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(reminders)
		}

		if len(reminders) == 0 {
			fmt.Println("Напоминаний нет")
			return nil
		}

		now := time.Now()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "КОГДА\tТЕКСТ\tССЫЛКА")
		for _, r := range reminders {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
				dose.ScheduledTimeLabel(app.Locale(), r.FireAt, now),
				r.Body,
				r.Payload.URL,
			)
		}
		return w.Flush()
	},
}
