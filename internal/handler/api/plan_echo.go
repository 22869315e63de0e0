package api

import (
	"net/http"

	models "LaunchCast/internal/domain/models"
	"LaunchCast/internal/service/ratelimit"
	"LaunchCast/internal/usecase"
	xhttp "LaunchCast/pkg/http"
	xlogger "LaunchCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CodeInvalidTarget is returned when the target product fails domain validation.
const CodeInvalidTarget = "ERR_INVALID_TARGET"

var planErrors = []xhttp.ErrorRule{
	{Target: models.ErrInvalidTargetProduct, Code: CodeInvalidTarget, Field: "target", Status: http.StatusBadRequest},
}

// PlanEchoHandler serves the planning endpoints.
type PlanEchoHandler struct {
	logger  *xlogger.Logger
	planner *usecase.Planner
	limiter *ratelimit.Limiter
}

// NewPlanEchoHandler creates the handler. A nil limiter disables rate limiting.
func NewPlanEchoHandler(logger *xlogger.Logger, planner *usecase.Planner, limiter *ratelimit.Limiter) *PlanEchoHandler {
	if logger == nil {
		logger = xlogger.NewNop()
	}
	return &PlanEchoHandler{logger: logger, planner: planner, limiter: limiter}
}

func (h *PlanEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	var mw []echo.MiddlewareFunc
	if h.limiter != nil {
		mw = append(mw, h.limiter.Middleware())
	}
	g.POST("/plan", h.Plan, mw...)
	g.POST("/candidates", h.Candidates, mw...)
	g.GET("/health", h.Health)
}

// Plan runs the full pipeline and returns a PlanResult.
func (h *PlanEchoHandler) Plan(c echo.Context) error {
	req := &models.PlanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.planner.Plan(c.Request().Context(), req.ToInput())
	if err != nil {
		return h.fail(c, "plan", err)
	}
	if res.Cached {
		c.Response().Header().Set("X-Plan-Cache", "hit")
	}
	return xhttp.SuccessResponse(c, res)
}

// Candidates returns the ranked candidate set without a forecast.
func (h *PlanEchoHandler) Candidates(c echo.Context) error {
	req := &models.PlanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.planner.RankCandidates(c.Request().Context(), req.ToInput())
	if err != nil {
		return h.fail(c, "candidates", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PlanEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *PlanEchoHandler) fail(c echo.Context, op string, err error) error {
	appErr, known := xhttp.MapError(err, "planning failed", planErrors...)
	if !known {
		h.logger.Error(op+" usecase error", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}
