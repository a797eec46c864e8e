package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/storage"
)

// StatsSource provides daily history totals.
type StatsSource interface {
	DailyStats(ctx context.Context, day string) (storage.DailyStats, error)
	Today(ctx context.Context) (storage.DailyStats, error)
}

// Handler maps requests to engine commands.
type Handler struct {
	commander engine.Commander
	stats     StatsSource
	onChange  func(engine.Snapshot)
	logger    *log.Logger
}

// NewHandler creates a handler. stats may be nil when history is unavailable.
// onChange, when set, is called after requests that change persisted settings.
func NewHandler(commander engine.Commander, stats StatsSource, onChange func(engine.Snapshot), logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{commander: commander, stats: stats, onChange: onChange, logger: logger}
}

// HandleLine decodes one request line and executes it.
func (handler *Handler) HandleLine(ctx context.Context, line []byte) Response {
	var request Request
	if err := json.Unmarshal(line, &request); err != nil {
		return Response{OK: false, Error: errInvalidJSONMessage}
	}
	return handler.Handle(ctx, request)
}

// Handle executes one request.
func (handler *Handler) Handle(ctx context.Context, request Request) Response {
	handler.logger.Debug("control request", "action", request.Action)

	commands := map[string]func(){
		ActionStartPomodoro:  handler.commander.StartPomodoro,
		ActionPausePomodoro:  handler.commander.PausePomodoro,
		ActionResetPomodoro:  handler.commander.ResetPomodoro,
		ActionStartBreak:     handler.commander.StartBreak,
		ActionSkipBreak:      handler.commander.SkipBreak,
		ActionStartCountdown: handler.commander.StartCountdown,
		ActionPauseCountdown: handler.commander.PauseCountdown,
		ActionResetCountdown: handler.commander.ResetCountdown,
	}
	if command, ok := commands[request.Action]; ok {
		command()
		return handler.state()
	}

	switch request.Action {
	case ActionGetState:
		return handler.state()
	case ActionUpdateSettings:
		settings, err := request.Settings.Settings()
		if err != nil {
			return failure(err)
		}
		handler.commander.UpdateSettings(settings)
		return handler.changed()
	case ActionSetCountdown:
		if request.Minutes == nil {
			return failure(errors.New("minutes is required"))
		}
		handler.commander.SetCountdownDuration(*request.Minutes)
		return handler.changed()
	case ActionSetFocusSound:
		sound, err := engine.ParseFocusSound(request.Sound)
		if err != nil {
			return failure(err)
		}
		handler.commander.SetFocusSound(sound)
		return handler.changed()
	case ActionSetPreset:
		if err := handler.commander.ApplyPreset(request.Preset); err != nil {
			return failure(err)
		}
		return handler.changed()
	case ActionGetStats:
		return handler.dailyStats(ctx, request.Day)
	default:
		return unknownAction(request.Action)
	}
}

func (handler *Handler) state() Response {
	snapshot := handler.commander.Snapshot()
	return Response{OK: true, State: &snapshot}
}

func (handler *Handler) changed() Response {
	response := handler.state()
	if handler.onChange != nil {
		handler.onChange(*response.State)
	}
	return response
}

func (handler *Handler) dailyStats(ctx context.Context, day string) Response {
	if handler.stats == nil {
		return failure(errors.New("history is unavailable"))
	}

	var (
		stats storage.DailyStats
		err   error
	)
	if day == "" {
		stats, err = handler.stats.Today(ctx)
	} else {
		stats, err = handler.stats.DailyStats(ctx, day)
	}
	if err != nil {
		handler.logger.Warn("stats query failed", "day", day, "err", err)
		return failure(fmt.Errorf("load stats: %w", err))
	}
	return Response{OK: true, Stats: &stats}
}
