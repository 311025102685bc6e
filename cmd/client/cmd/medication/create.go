// cmd/client/cmd/medication/create.go
package medication

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"medtracker/cmd/client/cmd/types"
	"medtracker/internal/app/client"
	"medtracker/internal/domain/medication"
	"medtracker/internal/domain/periodicity"
)

const validityLayout = "2006-01-02"

var (
	createName        string
	createDosage      string
	createType        string
	createPeriodicity string
	createValidity    string
	createQuantity    int
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Добавить лекарство",
	Long: `Добавляет лекарство и пересобирает напоминания о приеме.

Режим приема задается типом и строкой периодичности:
  INTERVAL     интервал HH:MM, например 08:00 (каждые 8 часов)
  FIXED_TIMES  время приема через запятую, например 08:00,14:00,20:00

Пример:
  medtracker medication create --name Dipirona --dosage 1 \
    --type FIXED_TIMES --periodicity 08:00,20:00 --validity 2027-05-01 --quantity 20`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		validity, err := time.ParseInLocation(validityLayout, createValidity, time.Local)
		if err != nil {
			return fmt.Errorf("срок годности должен быть в формате ГГГГ-ММ-ДД: %q", createValidity)
		}

		med, err := app.Medications().Create(cmd.Context(), medication.CreateRequest{
			Name:              createName,
			Dosage:            createDosage,
			PeriodicityType:   periodicity.Type(createType),
			Periodicity:       createPeriodicity,
			Validity:          validity,
			QuantityAvailable: createQuantity,
		})
		if err != nil {
			return formError(err)
		}

		if types.JSONOutput(cmd) {
			return types.PrintJSON(med)
		}

		fmt.Println("✅ Лекарство добавлено")
		if med.ID != "" {
			fmt.Printf("ID: %s\n", med.ID)
		}
		fmt.Printf("Режим: %s\n", med.PeriodicityLabel(app.Locale()))
		return nil
	},
}

// formError выводит ошибки полей формы построчно, как их показывает форма.
func formError(err error) error {
	var formErr *medication.FormError
	var fieldErrs *client.FieldErrors
	switch {
	case errors.As(err, &formErr):
		printFields(formErr.Fields)
		return errors.New("форма заполнена неверно")
	case errors.As(err, &fieldErrs):
		printFields(fieldErrs.Fields)
		return errors.New("сервер отклонил форму")
	}
	return types.WrapAuth(fmt.Errorf("ошибка добавления лекарства: %w", err))
}

func printFields(fields []medication.FieldError) {
	for _, f := range fields {
		fmt.Printf("  --%s: %s\n", f.Field, f.Message)
	}
}

func init() {
	CreateCmd.Flags().StringVar(&createName, "name", "", "название лекарства")
	CreateCmd.Flags().StringVar(&createDosage, "dosage", "", "дозировка (единиц за прием)")
	CreateCmd.Flags().StringVar(&createType, "type", string(periodicity.TypeInterval), "тип периодичности: INTERVAL или FIXED_TIMES")
	CreateCmd.Flags().StringVar(&createPeriodicity, "periodicity", "", "интервал HH:MM или список времени HH:MM через запятую")
	CreateCmd.Flags().StringVar(&createValidity, "validity", "", "срок годности, ГГГГ-ММ-ДД")
	CreateCmd.Flags().IntVar(&createQuantity, "quantity", 0, "количество в наличии")
}
