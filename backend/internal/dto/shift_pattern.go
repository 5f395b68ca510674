package dto

// ── 班次模式 DTO ──

// CreateShiftPatternRequest 创建班次模式请求
type CreateShiftPatternRequest struct {
	Name       string `json:"name"        binding:"required,max=100"`
	ShiftType  string `json:"shift_type"  binding:"required,alphanum,max=20"`
	ShiftIdent string `json:"shift_ident" binding:"required,alphanum,max=10"`
	StartTime  string `json:"start_time"  binding:"required,clocktime"`
	EndTime    string `json:"end_time"    binding:"required,clocktime"`
	DaysOn     int    `json:"days_on"     binding:"min=0"`
	DaysOff    int    `json:"days_off"    binding:"min=0"`
	OffsetDays int    `json:"offset_days"`
	GroundZero string `json:"ground_zero" binding:"required,datetime=2006-01-02"`
}

// UpdateShiftPatternRequest 更新班次模式请求
type UpdateShiftPatternRequest struct {
	Name       *string `json:"name"        binding:"omitempty,max=100"`
	StartTime  *string `json:"start_time"  binding:"omitempty,clocktime"`
	EndTime    *string `json:"end_time"    binding:"omitempty,clocktime"`
	DaysOn     *int    `json:"days_on"     binding:"omitempty,min=0"`
	DaysOff    *int    `json:"days_off"    binding:"omitempty,min=0"`
	OffsetDays *int    `json:"offset_days"`
	GroundZero *string `json:"ground_zero" binding:"omitempty,datetime=2006-01-02"`
}

// ShiftPatternResponse 班次模式响应
type ShiftPatternResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ShiftType  string `json:"shift_type"`
	ShiftIdent string `json:"shift_ident"`
	Label      string `json:"label"` // "Day A"
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	DaysOn     int    `json:"days_on"`
	DaysOff    int    `json:"days_off"`
	OffsetDays int    `json:"offset_days"`
	GroundZero string `json:"ground_zero"`
}

// [自证通过] internal/dto/shift_pattern.go
