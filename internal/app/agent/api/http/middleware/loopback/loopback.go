package loopback

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Loopback пропускает только запросы с локальной машины, остальные
// получают 403.
type Loopback struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Loopback {
	return &Loopback{
		log: log.With(slog.String("component", "loopback_middleware")),
	}
}

// Middleware возвращает middleware для Huma с сигнатурой func(ctx Context, next func(Context))
func (l *Loopback) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if IsLoopback(ctx.RemoteAddr()) {
			next(ctx)
			return
		}

		l.log.Warn("rejected non-local request", "remote_addr", ctx.RemoteAddr(), "path", ctx.URL().Path)
		ctx.SetHeader("Content-Type", "application/json")
		ctx.SetStatus(http.StatusForbidden)

		if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
			"error": "Forbidden",
		}); err != nil {
			l.log.Error("failed to write response", "error", err)
		}
	}
}

// IsLoopback сообщает, что адрес вида host:port или host указывает на
// локальную машину.
func IsLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
