package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/gridironpool/pickstick/internal/usecase"
)

type Handler struct {
	weekService  *usecase.WeekService
	orderService *usecase.DraftOrderService
	lockService  *usecase.DraftLockService
	simService   *usecase.SimulationService
	scoreService *usecase.ScoreSyncService
	scheduler    *usecase.ScoreScheduler
	logger       *slog.Logger
	validator    *validator.Validate
}

func NewHandler(
	weekService *usecase.WeekService,
	orderService *usecase.DraftOrderService,
	lockService *usecase.DraftLockService,
	simService *usecase.SimulationService,
	scoreService *usecase.ScoreSyncService,
	scheduler *usecase.ScoreScheduler,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		weekService:  weekService,
		orderService: orderService,
		lockService:  lockService,
		simService:   simService,
		scoreService: scoreService,
		scheduler:    scheduler,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentWeek")
	defer span.End()

	week, err := h.weekService.CurrentWeek(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "resolve current week failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	state, err := h.weekService.GetState(ctx, week)
	if err != nil {
		h.logger.ErrorContext(ctx, "get week state failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, currentWeekDTO{
		Week:  week,
		State: weekStateToDTO(state),
	})
}

func (h *Handler) GetWeekState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeekState")
	defer span.End()

	week, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.weekService.GetState(ctx, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get week state failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekStateToDTO(state))
}

func (h *Handler) GetDraftState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraftState")
	defer span.End()

	week, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	locked, err := h.lockService.RefreshAndCheck(ctx, week)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh draft lock failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	picks, available, err := h.orderService.DraftState(ctx, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get draft state failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftStateDTO{
		Week:           week,
		IsDraftLocked:  locked,
		Picks:          picksToDTO(picks),
		AvailableTeams: teamsToDTO(available),
	})
}

func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDraft")
	defer span.End()

	week, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.orderService.StartDraft(ctx, week)
	if err != nil {
		h.logger.WarnContext(ctx, "start draft failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, picksToDTO(picks))
}

func (h *Handler) SelectTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectTeam")
	defer span.End()

	week, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var payload selectTeamRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	selected, err := h.lockService.SelectTeam(ctx, week, payload.PickID, payload.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "select team failed",
			"week", week, "pick_id", payload.PickID, "team_id", payload.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(selected))
}

func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreboard")
	defer span.End()

	week, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	board, err := h.scoreService.Leaderboard(ctx, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get scoreboard failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(week, board))
}

func (h *Handler) UnlockDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlockDraft")
	defer span.End()

	week, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.lockService.Unlock(ctx, week); err != nil {
		h.logger.WarnContext(ctx, "unlock draft failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"week": week, "isDraftLocked": false})
}

func (h *Handler) SimulateWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SimulateWeek")
	defer span.End()

	week, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.simService.SimulateWeek(ctx, week)
	if err != nil {
		h.logger.WarnContext(ctx, "simulate week failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, picksToDTO(picks))
}

func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerSync")
	defer span.End()

	week, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.scheduler.TriggerNow(ctx, week); err != nil {
		h.logger.WarnContext(ctx, "manual sync failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.scheduler.Status())
}

func (h *Handler) SetPunishment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPunishment")
	defer span.End()

	week, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var payload setPunishmentRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.weekService.SetPunishment(ctx, week, strings.TrimSpace(payload.Punishment)); err != nil {
		h.logger.WarnContext(ctx, "set punishment failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"week": week, "punishment": strings.TrimSpace(payload.Punishment)})
}

func (h *Handler) GetSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedulerStatus")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.scheduler.Status())
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func weekFromPath(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("week"))
	week, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: week must be a number", usecase.ErrInvalidInput)
	}
	return week, nil
}

type selectTeamRequest struct {
	PickID int64 `json:"pickId" validate:"required,gt=0"`
	TeamID int64 `json:"teamId" validate:"required,gt=0"`
}

type setPunishmentRequest struct {
	Punishment string `json:"punishment" validate:"max=500"`
}
