package medication

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "list-medications",
		Method:      http.MethodGet,
		Path:        "/api/v1/medications",
		Summary:     "Лекарства из локального кэша",
		Description: "Возвращает лекарства, сохраненные при последней загрузке с сервера, с подписями режима приема и срока годности",
		Tags:        []string{"medications"},
		Middlewares: h.middleware,
	}
}
