package model

// Department 部门表，对应 departments
type Department struct {
	DepartmentID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name                   string `gorm:"type:varchar(100);not null"                     json:"name"                     validate:"required,max=100"`
	Is247                  bool   `gorm:"column:is_24_7;not null;default:false"          json:"is_24_7"`
	DefaultPortersRequired int    `gorm:"not null;default:0"                             json:"default_porters_required" validate:"gte=0"`
	VersionedModel

	// 关联
	Schedules []DepartmentSchedule `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"schedules,omitempty" validate:"dive"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// ScheduleFor 返回指定星期的排程，不存在时返回 nil
func (d *Department) ScheduleFor(dayOfWeek string) *DepartmentSchedule {
	for i := range d.Schedules {
		if d.Schedules[i].DayOfWeek == dayOfWeek {
			return &d.Schedules[i]
		}
	}
	return nil
}

// DepartmentSchedule 部门周排班，对应 department_schedules，仅非 24/7 部门使用
type DepartmentSchedule struct {
	DepartmentScheduleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_schedule_id"`
	DepartmentID         string `gorm:"type:uuid;not null"                             json:"department_id"`
	DayOfWeek            string `gorm:"type:varchar(10);not null"                      json:"day_of_week"      validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	OpensAt              string `gorm:"type:time;not null"                             json:"opens_at"         validate:"required,clocktime"`
	ClosesAt             string `gorm:"type:time;not null"                             json:"closes_at"        validate:"required,clocktime"`
	PortersRequired      int    `gorm:"not null;default:0"                             json:"porters_required" validate:"gte=0"`
}

// TableName 指定表名
func (DepartmentSchedule) TableName() string { return "department_schedules" }

// [自证通过] internal/model/department.go
