package dto

import "github.com/Hypha-Media-UK/rotatr/backend/internal/rota"

// ── 排班计算 DTO ──

// WorkingHours 生效的上班时段
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PorterAvailability 单个搬运工在某天的可用性（即时计算，不持久化）
type PorterAvailability struct {
	Porter         PorterResponse `json:"porter"`
	IsWorking      bool           `json:"is_working"`
	IsAvailable    bool           `json:"is_available"`
	ConflictReason string         `json:"conflict_reason,omitempty"`
	WorkingHours   WorkingHours   `json:"working_hours"`
}

// PorterWorkingResponse 某搬运工某天是否上班
type PorterWorkingResponse struct {
	PorterID  string `json:"porter_id"`
	Date      string `json:"date"`
	ShiftType string `json:"shift_type"`
	IsWorking bool   `json:"is_working"`
}

// PortersWorkingResponse 某天上班的搬运工
type PortersWorkingResponse struct {
	Date        string           `json:"date"`
	Porters     []PorterResponse `json:"porters"`
	Count       int              `json:"count"`
	FetchErrors []FetchError     `json:"fetch_errors,omitempty"`
}

// AvailabilityListResponse 全部搬运工某天的可用性
type AvailabilityListResponse struct {
	Date           string               `json:"date"`
	Availabilities []PorterAvailability `json:"availabilities"`
	FetchErrors    []FetchError         `json:"fetch_errors,omitempty"`
}

// NextWorkingDayResponse 下一个上班日，找不到时为 null
type NextWorkingDayResponse struct {
	PorterID       string  `json:"porter_id"`
	FromDate       string  `json:"from_date"`
	NextWorkingDay *string `json:"next_working_day"`
	DaysChecked    int     `json:"days_checked"`
}

// WorkingDaysResponse 日期区间内的上班日
type WorkingDaysResponse struct {
	PorterID    string   `json:"porter_id"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	WorkingDays []string `json:"working_days"`
	Count       int      `json:"count"`
}

// ── 人手统计 DTO ──

// AlertResponse 人手告警响应
type AlertResponse struct {
	ID               string `json:"id"`
	DepartmentID     string `json:"department_id"`
	DepartmentName   string `json:"department_name,omitempty"`
	AlertDate        string `json:"alert_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	RequiredPorters  int    `json:"required_porters"`
	AvailablePorters int    `json:"available_porters"`
	AlertType        string `json:"alert_type"`
}

// DepartmentStaffing 部门某天的人手情况
type DepartmentStaffing struct {
	Department           DepartmentResponse   `json:"department"`
	Date                 string               `json:"date"`
	RequiredPorters      int                  `json:"required_porters"`
	AvailablePorters     []PorterAvailability `json:"available_porters"`
	TemporaryAssignments []AssignmentResponse `json:"temporary_assignments"`
	StaffingLevel        rota.Level           `json:"staffing_level"`
	Alerts               []AlertResponse      `json:"alerts"`
	FetchErrors          []FetchError         `json:"fetch_errors,omitempty"`
}

// ShiftBucket 白班或夜班的汇总
type ShiftBucket struct {
	FloorStaff  []PorterAvailability  `json:"floor_staff"`
	Departments []*DepartmentStaffing `json:"departments"`
}

// DailyStaffingOverview 每日人手总览
type DailyStaffingOverview struct {
	Date        string          `json:"date"`
	DayShift    ShiftBucket     `json:"day_shift"`
	NightShift  ShiftBucket     `json:"night_shift"`
	Alerts      []AlertResponse `json:"alerts"`
	FetchErrors []FetchError    `json:"fetch_errors,omitempty"`
}

// GenerateAlertsResponse 告警生成结果，Alerts 为本次新建的全部告警
type GenerateAlertsResponse struct {
	Date            string          `json:"date"`
	AlertsGenerated int             `json:"alerts_generated"`
	Alerts          []AlertResponse `json:"alerts"`
	FetchErrors     []FetchError    `json:"fetch_errors,omitempty"`
}

// AlertListResponse 某天告警列表
type AlertListResponse struct {
	Date           string          `json:"date"`
	TotalAlerts    int             `json:"total_alerts"`
	CriticalAlerts int             `json:"critical_alerts"`
	LowStaffAlerts int             `json:"low_staff_alerts"`
	Alerts         []AlertResponse `json:"alerts"`
}

// StaffingSummary 某天人手统计（基于已持久化的告警）
type StaffingSummary struct {
	Date                            string `json:"date"`
	TotalDepartments                int    `json:"total_departments"`
	DepartmentsWithAdequateStaffing int    `json:"departments_with_adequate_staffing"`
	DepartmentsWithLowStaffing      int    `json:"departments_with_low_staffing"`
	DepartmentsWithCriticalStaffing int    `json:"departments_with_critical_staffing"`
	TotalAlerts                     int    `json:"total_alerts"`
	CriticalAlerts                  int    `json:"critical_alerts"`
	LowStaffAlerts                  int    `json:"low_staff_alerts"`
}

// [自证通过] internal/dto/staffing.go
