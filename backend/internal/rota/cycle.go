package rota

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedShiftType 班次类型字符串不是 "<类型> <标识>" 两段
var ErrMalformedShiftType = errors.New("班次类型格式无效，应为 \"Day A\" 形式")

// Cycle 一个 N 天上/M 天休的轮班周期，自 GroundZero 起算
type Cycle struct {
	GroundZero time.Time
	DaysOn     int
	DaysOff    int
}

// Length 周期长度
func (c Cycle) Length() int {
	return c.DaysOn + c.DaysOff
}

// Position 返回 target 在周期中的位置，已归一化到 [0, Length)。
// 周期长度不为正时 ok=false。
func (c Cycle) Position(offsetDays int, target time.Time) (pos int, ok bool) {
	length := c.Length()
	if length <= 0 {
		return 0, false
	}

	adjusted := DaysBetween(c.GroundZero, target) - offsetDays
	pos = adjusted % length
	if pos < 0 {
		pos += length
	}
	return pos, true
}

// IsWorking 判断个人偏移为 offsetDays 的员工在 target 当天是否上班
func IsWorking(c Cycle, offsetDays int, target time.Time) bool {
	pos, ok := c.Position(offsetDays, target)
	if !ok {
		return false
	}
	return pos < c.DaysOn
}

// ParseShiftType 把 "Day A" 拆分为 ("Day", "A")。
// 首尾空白会被去掉，中间必须恰好是一个空格分隔的两段。
func ParseShiftType(s string) (shiftType, ident string, err error) {
	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedShiftType, s)
	}
	return parts[0], parts[1], nil
}

// FormatShiftType ParseShiftType 的逆操作
func FormatShiftType(shiftType, ident string) string {
	return shiftType + " " + ident
}
