package reminder

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
)

var limit int

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Разрешение и журнал синхронизаций",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		permission, err := app.Notifications().PermissionStatus(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка чтения разрешения: %w", err)
		}

		passes, err := app.Journal().RecentPasses(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("ошибка чтения журнала: %w", err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(map[string]any{
				"permission": permission,
				"passes":     passes,
			})
		}

		fmt.Printf("Разрешение на уведомления: %s\n", permission)
		if len(passes) == 0 {
			fmt.Println("Синхронизаций еще не было")
			return nil
		}

		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "НАЧАЛО\tЗАПЛАНИРОВАНО\tПРОПУЩЕНО\tОШИБОК\tИТОГ")
		for _, p := range passes {
			outcome := color.GreenString("ok")
			if !p.Succeeded() {
				outcome = color.RedString("%s", "error")
				if p.Error != "" {
					outcome = color.RedString("%s", p.Error)
				}
			}
			_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
				p.StartedAt.Local().Format("02.01.2006 15:04:05"),
				p.Scheduled,
				p.Skipped,
				p.Failed+p.CancelFailed,
				outcome,
			)
		}
		return w.Flush()
	},
}

func init() {
	StatusCmd.Flags().IntVar(&limit, "limit", 10, "сколько последних проходов показать")
}
