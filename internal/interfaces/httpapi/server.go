package httpapi

import (
	"log/slog"
	"net/http"
)

func NewRouter(
	handler *Handler,
	logger *slog.Logger,
	corsAllowedOrigins []string,
	adminToken string,
) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPoolRoutes(mux, handler)
	registerAdminRoutes(mux, handler, adminToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPoolRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/weeks/current", handler.GetCurrentWeek)
	mux.HandleFunc("GET /v1/weeks/{week}/state", handler.GetWeekState)
	mux.HandleFunc("GET /v1/weeks/{week}/draft", handler.GetDraftState)
	mux.HandleFunc("POST /v1/weeks/{week}/draft", handler.StartDraft)
	mux.HandleFunc("POST /v1/weeks/{week}/picks", handler.SelectTeam)
	mux.HandleFunc("GET /v1/weeks/{week}/scoreboard", handler.GetScoreboard)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/admin/weeks/{week}/unlock", RequireAdminToken(adminToken, http.HandlerFunc(handler.UnlockDraft)))
	mux.Handle("POST /v1/admin/weeks/{week}/simulate", RequireAdminToken(adminToken, http.HandlerFunc(handler.SimulateWeek)))
	mux.Handle("POST /v1/admin/weeks/{week}/sync", RequireAdminToken(adminToken, http.HandlerFunc(handler.TriggerSync)))
	mux.Handle("PUT /v1/admin/weeks/{week}/punishment", RequireAdminToken(adminToken, http.HandlerFunc(handler.SetPunishment)))
	mux.Handle("GET /v1/admin/scheduler", RequireAdminToken(adminToken, http.HandlerFunc(handler.GetSchedulerStatus)))
}

func recoverPanic(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
