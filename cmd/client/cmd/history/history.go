// cmd/client/cmd/history/history.go
package history

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	"medtracker/internal/domain/dose"
	"medtracker/internal/i18n"
)

var (
	page   int
	status string
)

var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "История приема",
	Long: `Показывает историю приема по страницам.

По умолчанию выводятся принятые, отложенные и пропущенные дозы.
Фильтр по статусам: --status TAKEN,SNOOZED,MISSED,PENDING.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		statuses, err := dose.ParseStatuses(status)
		if err != nil {
			return err
		}

		doses, err := app.History().History(cmd.Context(), dose.HistoryFilter{
			Page:     page,
			Statuses: statuses,
		})
		switch {
		case errors.Is(err, dose.ErrInvalidPage):
			return errors.New("номер страницы должен быть положительным")
		case err != nil:
			return types.WrapAuth(fmt.Errorf("ошибка получения истории: %w", err))
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(doses)
		}

		if len(doses) == 0 {
			fmt.Println("История пуста")
			return nil
		}

		printHistory(app.Locale(), doses, time.Now())
		return nil
	},
}

func printHistory(loc *i18n.Locale, doses []dose.ScheduledDose, now time.Time) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ВРЕМЯ\tЛЕКАРСТВО\tДОЗИРОВКА\tСТАТУС")

	for _, d := range doses {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			dose.ScheduledTimeLabel(loc, d.ScheduledAt, now),
			d.Medication.Name,
			dose.UnitsLabel(loc, d.Medication.Dosage),
			statusLabel(loc, d, now),
		)
	}
	_ = w.Flush()
}

func statusLabel(loc *i18n.Locale, d dose.ScheduledDose, now time.Time) string {
	if d.IsOverdue(now) {
		return color.RedString("%s", loc.Sprintf("Overdue"))
	}

	label := dose.StatusLabel(loc, d.Status)
	switch d.Status {
	case dose.StatusTaken:
		return color.GreenString("%s", label)
	case dose.StatusMissed:
		return color.RedString("%s", label)
	case dose.StatusSnoozed:
		return color.YellowString("%s", label)
	default:
		return label
	}
}

func init() {
	HistoryCmd.Flags().IntVar(&page, "page", 1, "номер страницы")
	HistoryCmd.Flags().StringVar(&status, "status", "", "статусы через запятую")
}
