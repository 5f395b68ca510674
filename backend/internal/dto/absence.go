package dto

// ── 缺勤与临时调配 DTO ──

// CreateAbsenceRequest 创建缺勤请求
type CreateAbsenceRequest struct {
	StartDate   string  `json:"start_date"   binding:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date"     binding:"required,datetime=2006-01-02"`
	AbsenceType string  `json:"absence_type" binding:"required,oneof='Annual Leave' Sickness Appointment"`
	StartTime   *string `json:"start_time"   binding:"omitempty,clocktime"`
	EndTime     *string `json:"end_time"     binding:"omitempty,clocktime"`
	Notes       *string `json:"notes"        binding:"omitempty,max=500"`
}

// AbsenceResponse 缺勤响应
type AbsenceResponse struct {
	ID          string  `json:"id"`
	PorterID    string  `json:"porter_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	AbsenceType string  `json:"absence_type"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// CreateAssignmentRequest 创建临时调配请求
type CreateAssignmentRequest struct {
	PorterID       string `json:"porter_id"       binding:"required,uuid"`
	DepartmentID   string `json:"department_id"   binding:"required,uuid"`
	AssignmentDate string `json:"assignment_date" binding:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time"      binding:"required,clocktime"`
	EndTime        string `json:"end_time"        binding:"required,clocktime"`
	AssignmentType string `json:"assignment_type" binding:"required,oneof='Floor Staff' 'Relief Cover'"`
}

// AssignmentListRequest 临时调配列表查询参数
type AssignmentListRequest struct {
	Date         string `form:"date"          binding:"required,datetime=2006-01-02"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// AssignmentResponse 临时调配响应
type AssignmentResponse struct {
	ID             string `json:"id"`
	PorterID       string `json:"porter_id"`
	PorterName     string `json:"porter_name,omitempty"`
	DepartmentID   string `json:"department_id"`
	AssignmentDate string `json:"assignment_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	AssignmentType string `json:"assignment_type"`
}

// [自证通过] internal/dto/absence.go
