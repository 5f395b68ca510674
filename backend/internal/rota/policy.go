package rota

// Level 部门人手等级
type Level string

const (
	LevelAdequate Level = "Adequate"
	LevelLow      Level = "Low"
	LevelCritical Level = "Critical"
)

// 告警类型，与 staffing_alerts.alert_type 取值一致
const (
	AlertTypeLowStaff = "Low Staff"
	AlertTypeCritical = "Critical"
)

// 默认时段
const (
	DayShiftStart      = "08:00:00"
	DayShiftEnd        = "20:00:00"
	DefaultOpensAt     = "08:00:00"
	DefaultClosesAt    = "17:00:00"
	PlaceholderTime    = "00:00:00"
	ShiftPrefixDay     = "Day"
	ShiftPrefixNight   = "Night"
	lowThresholdRatio  = 0.5
	fullThresholdRatio = 1.0
)

// StaffingLevel 根据 available/required 比例给出人手等级，阈值固定。
// required 不为正时恒为 Adequate。
func StaffingLevel(required, available int) Level {
	if required <= 0 {
		return LevelAdequate
	}

	ratio := float64(available) / float64(required)
	switch {
	case ratio >= fullThresholdRatio:
		return LevelAdequate
	case ratio >= lowThresholdRatio:
		return LevelLow
	default:
		return LevelCritical
	}
}

// NeedsAlert 只有 Low 与 Critical 需要生成告警
func (l Level) NeedsAlert() bool {
	return l == LevelLow || l == LevelCritical
}

// AlertType 等级对应的告警类型
func (l Level) AlertType() string {
	if l == LevelCritical {
		return AlertTypeCritical
	}
	return AlertTypeLowStaff
}

// Slot 告警时段
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Window 部门某一天的营业时段
type Window struct {
	OpensAt  string
	ClosesAt string
}

// AlertSlots 计算部门当天需要告警的时段：
// 24/7 部门固定为白班 08:00-20:00 与夜班 20:00-08:00；
// 其余部门按当天排程的营业时段，无排程时为 08:00-17:00。
func AlertSlots(is247 bool, schedule *Window) []Slot {
	if is247 {
		return []Slot{
			{Start: DayShiftStart, End: DayShiftEnd},
			{Start: DayShiftEnd, End: DayShiftStart},
		}
	}
	if schedule == nil {
		return []Slot{{Start: DefaultOpensAt, End: DefaultClosesAt}}
	}
	return []Slot{{Start: schedule.OpensAt, End: schedule.ClosesAt}}
}
