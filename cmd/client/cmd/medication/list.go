// cmd/client/cmd/medication/list.go
package medication

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	"medtracker/internal/domain/dose"
	"medtracker/internal/domain/medication"
	"medtracker/internal/domain/validity"
	"medtracker/internal/i18n"
)

var listOffline bool

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список лекарств",
	Long: `Загружает список лекарств с сервера и обновляет локальный кэш.

С флагом --offline список читается из кэша без обращения к серверу.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var meds []medication.Medication
		if listOffline {
			meds, err = app.Medications().ListCached(cmd.Context())
		} else {
			meds, err = app.Medications().List(cmd.Context())
		}
		if err != nil {
			return types.WrapAuth(fmt.Errorf("ошибка получения списка лекарств: %w", err))
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(meds)
		}

		if len(meds) == 0 {
			fmt.Println("Лекарств пока нет. Добавьте первое: medtracker medication create")
			return nil
		}

		printTable(app.Locale(), meds, time.Now())
		return nil
	},
}

func printTable(loc *i18n.Locale, meds []medication.Medication, now time.Time) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tНАЗВАНИЕ\tДОЗИРОВКА\tРЕЖИМ\tЗАПАС\tСРОК ГОДНОСТИ")

	for _, m := range meds {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.Name,
			dose.UnitsLabel(loc, m.Dosage),
			m.PeriodicityLabel(loc),
			stockLabel(loc, m),
			expiryLabel(loc, m, now),
		)
	}
	_ = w.Flush()
}

func stockLabel(loc *i18n.Locale, m medication.Medication) string {
	if m.QuantityAvailable == nil {
		return "-"
	}

	q := *m.QuantityAvailable
	label := loc.Sprintf("%s units", strconv.Itoa(q))
	if q == 1 {
		label = loc.Sprintf("%s unit", strconv.Itoa(q))
	}
	if m.IsLowStock() {
		return color.YellowString("%s ⚠", label)
	}
	return label
}

func expiryLabel(loc *i18n.Locale, m medication.Medication, now time.Time) string {
	label := m.ValidityLabel(loc, now)

	switch validity.SeverityOf(m.Validity, now) {
	case validity.SeverityUrgent:
		return color.RedString("%s", label)
	case validity.SeverityWarning:
		return color.YellowString("%s", label)
	default:
		return color.GreenString("%s", label)
	}
}

func init() {
	ListCmd.Flags().BoolVar(&listOffline, "offline", false, "показать лекарства из локального кэша")
}
