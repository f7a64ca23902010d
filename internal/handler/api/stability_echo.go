package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	models "StabTrade/internal/domain/models"
	domsvc "StabTrade/internal/domain/service"
	icache "StabTrade/internal/service/cache"
	"StabTrade/internal/services/stability"
	"StabTrade/internal/usecase"
	xhttp "StabTrade/pkg/http"
	xlogger "StabTrade/pkg/logger"
)

// StabilityEchoHandler exposes the stability metric and decision rule over HTTP.
type StabilityEchoHandler struct {
	logger    *xlogger.Logger
	estimator domsvc.StabilityEstimator
	engine    domsvc.DecisionEngine
	evaluator *usecase.DayEvaluator
	cache     icache.BytesCache
	cacheTTL  time.Duration
}

func NewStabilityEchoHandler(
	logger *xlogger.Logger,
	estimator domsvc.StabilityEstimator,
	engine domsvc.DecisionEngine,
	evaluator *usecase.DayEvaluator,
	cache icache.BytesCache,
	cacheTTL time.Duration,
) *StabilityEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &StabilityEchoHandler{logger: logger, estimator: estimator, engine: engine, evaluator: evaluator, cache: cache, cacheTTL: cacheTTL}
}

func (h *StabilityEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/stability", h.Stability)
	g.POST("/decide", h.Decide)
	g.POST("/evaluate", h.Evaluate)
}

func (h *StabilityEchoHandler) Stability(c echo.Context) error {
	req := &models.StabilityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// an omitted window means the configured one
	est := h.estimator
	if req.Window == 0 {
		req.Window = est.Window()
	} else if req.Window != est.Window() {
		est = stability.NewEstimator(req.Window)
	}

	ctx := c.Request().Context()
	key := h.cacheKey("stability", req)
	res := &models.StabilityResponse{}
	if h.fromCache(ctx, key, res) {
		return xhttp.SuccessResponse(c, res)
	}

	score, err := est.Stability(req.Closes)
	if err != nil {
		return h.fail(c, "stability", err)
	}
	res.Window = req.Window
	res.Stability = score
	h.toCache(ctx, key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *StabilityEchoHandler) Decide(c echo.Context) error {
	req := &models.DecideRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d, err := h.engine.Decide(req.Stability, req.Open, req.TradeClose, req.EndClose)
	if err != nil {
		return h.fail(c, "decide", err)
	}
	return xhttp.SuccessResponse(c, models.YieldOutcome{
		Stability:   req.Stability,
		Open:        req.Open,
		WindowClose: req.TradeClose,
		FinalClose:  req.EndClose,
		Action:      string(d.Action),
		StopLoss:    d.StopLoss,
		Yield:       d.Yield,
	})
}

func (h *StabilityEchoHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	key := h.cacheKey("evaluate", req)
	res := &models.EvaluateResponse{}
	if h.fromCache(ctx, key, res) {
		return xhttp.SuccessResponse(c, res)
	}

	bars := append([]models.Bar(nil), req.Bars...)
	sort.SliceStable(bars, func(a, b int) bool { return bars[a].Time.Before(bars[b].Time) })
	out := h.evaluator.EvaluateDay(models.DaySeries{Date: req.Date, Symbol: req.Symbol, Bars: bars})
	if out.Err != nil {
		return h.fail(c, "evaluate", out.Err)
	}
	res.Record = out.Record
	res.Outcome = out.Outcome
	h.toCache(ctx, key, res)
	return xhttp.SuccessResponse(c, res)
}

var evaluationErrors = []xhttp.ErrorRule{
	{Target: stability.ErrInsufficientData, Code: "ERR_INSUFFICIENT_DATA", Status: http.StatusUnprocessableEntity},
	{Target: stability.ErrDomain, Code: "ERR_DOMAIN", Status: http.StatusUnprocessableEntity},
}

func (h *StabilityEchoHandler) fail(c echo.Context, op string, err error) error {
	appErr := xhttp.MapError(err, "evaluation failed", evaluationErrors...)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" usecase error", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func (h *StabilityEchoHandler) cacheKey(ns string, req any) string {
	if h.cache == nil {
		return ""
	}
	b, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	return icache.Key(ns, b)
}

func (h *StabilityEchoHandler) fromCache(ctx context.Context, key string, dst any) bool {
	if key == "" {
		return false
	}
	b, ok, err := h.cache.GetBytes(ctx, key)
	if err != nil {
		h.logger.Warn("cache get failed", xlogger.Error(err))
		return false
	}
	if !ok {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (h *StabilityEchoHandler) toCache(ctx context.Context, key string, v any) {
	if key == "" {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(ctx, key, b, h.cacheTTL); err != nil {
		h.logger.Warn("cache set failed", xlogger.Error(err))
	}
}
