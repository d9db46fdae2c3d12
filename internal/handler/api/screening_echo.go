package api

import (
	"errors"
	"net/http"

	"StockScout/internal/domain/models"
	domsvc "StockScout/internal/domain/service"
	"StockScout/internal/usecase"
	xhttp "StockScout/pkg/http"
	xlogger "StockScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScreeningEchoHandler exposes the screening pipeline over HTTP.
type ScreeningEchoHandler struct {
	logger  *xlogger.Logger
	engine  *usecase.ScreeningEngine
	history domsvc.HistoryProvider
}

func NewScreeningEchoHandler(logger *xlogger.Logger, engine *usecase.ScreeningEngine, history domsvc.HistoryProvider) *ScreeningEchoHandler {
	return &ScreeningEchoHandler{logger: logger, engine: engine, history: history}
}

func (h *ScreeningEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/screening")
	g.POST("", h.Start)
	g.GET("/current", h.Current)
	g.GET("/can-start", h.CanStart)
	g.GET("/ws", h.Progress)
}

// Start triggers a screening run. The response carries the initial task
// snapshot; completion is observed via /current or the progress stream.
func (h *ScreeningEchoHandler) Start(c echo.Context) error {
	req := &models.StartScreeningRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	candidates := make([]models.CandidateStock, 0, len(req.Stocks))
	for _, s := range req.Stocks {
		bars, err := h.history.GetHistory(ctx, s.Code)
		if err != nil {
			h.logger.Warn("history fetch failed, candidate kept without bars",
				xlogger.String("code", s.Code),
				xlogger.Error(err))
		}
		cand := models.CandidateStock{
			Code:     s.Code,
			Name:     s.Name,
			Exchange: s.Exchange,
			Industry: s.Industry,
			History:  bars,
		}
		if n := len(bars); n > 0 {
			last := bars[n-1]
			cand.Price = last.Close
			cand.Volume = last.Volume
			if n > 1 && bars[n-2].Close > 0 {
				cand.ChangePercent = (last.Close - bars[n-2].Close) / bars[n-2].Close * 100
			}
		}
		candidates = append(candidates, cand)
	}

	task, err := h.engine.StartScreening(candidates, req.FilterCriteria, req.ForceStart)
	if err != nil {
		if errors.Is(err, usecase.ErrScreeningBusy) {
			busy := xhttp.NewAppError("ERR_SCREENING_BUSY", "", err.Error(), http.StatusConflict)
			return xhttp.AppErrorResponse(c, busy)
		}
		h.logger.Error("start screening error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, task)
}

// Current returns the latest task snapshot, running or terminal.
func (h *ScreeningEchoHandler) Current(c echo.Context) error {
	task := h.engine.CurrentTask()
	if task == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no screening task yet"))
	}
	return xhttp.SuccessResponse(c, task)
}

// CanStart reports whether a non-forced start would be accepted.
func (h *ScreeningEchoHandler) CanStart(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]bool{"can_start": h.engine.CanStart()})
}
