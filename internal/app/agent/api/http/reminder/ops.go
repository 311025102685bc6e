package reminder

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "list-reminders",
		Method:      http.MethodGet,
		Path:        "/api/v1/reminders",
		Summary:     "Запланированные напоминания",
		Description: "Возвращает напоминания в порядке срабатывания",
		Tags:        []string{"reminders"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-reminders",
		Method:      http.MethodPost,
		Path:        "/api/v1/reminders/sync",
		Summary:     "Пересобрать напоминания",
		Description: "Запускает проход синхронизации и возвращает его итог. " +
			"Если проход уже идет, запрос ждет его завершения.",
		Tags:        []string{"reminders"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) passesOp() huma.Operation {
	return huma.Operation{
		OperationID: "list-sync-passes",
		Method:      http.MethodGet,
		Path:        "/api/v1/reminders/passes",
		Summary:     "Журнал проходов синхронизации",
		Tags:        []string{"reminders"},
		Middlewares: h.middleware,
	}
}
