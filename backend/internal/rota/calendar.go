// Package rota 排班周期计算的纯函数集合：民用日期运算、轮班周期判定、
// 跨午夜时间段重叠以及人手等级策略。本包不做任何 I/O。
package rota

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout 边界上日期的统一格式
const DateLayout = "2006-01-02"

const (
	minutesPerDay = 24 * 60
	secondsPerDay = 24 * 60 * 60
)

var (
	ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidTime = errors.New("时间格式无效，应为 HH:MM 或 HH:MM:SS")
)

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ── 日期 ──

// ParseDate 解析 YYYY-MM-DD 为 UTC 零点的民用日期
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate 输出 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return Civil(t).Format(DateLayout)
}

// Civil 丢弃时分秒与时区，只保留 t 在其自身时区下的年月日
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween 从 a 到 b 的天数（b 早于 a 时为负）
func DaysBetween(a, b time.Time) int {
	diff := Civil(b).Unix() - Civil(a).Unix()
	// Go 的整数除法向零截断
	return int(diff / secondsPerDay)
}

// AddDays 日期加减天数
func AddDays(t time.Time, days int) time.Time {
	return Civil(t).AddDate(0, 0, days)
}

// DateRange 返回 [start, end] 闭区间内的每一天；end 早于 start 时返回空
func DateRange(start, end time.Time) []time.Time {
	start, end = Civil(start), Civil(end)
	if end.Before(start) {
		return nil
	}
	dates := make([]time.Time, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// DayOfWeekName 返回英文星期名，与 department_schedules.day_of_week 取值一致
func DayOfWeekName(t time.Time) string {
	return dayNames[Civil(t).Weekday()]
}

// ── 时间 ──

// TimeToMinutes 解析 "HH:MM" 或 "HH:MM:SS" 为当日分钟数（0-1439），秒被舍弃
func TimeToMinutes(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	limits := [...]int{23, 59, 59}
	values := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		values[i] = n
	}

	return values[0]*60 + values[1], nil
}

// MinutesToTime 分钟数转 "HH:MM"，超出一天的部分按 24 小时取模
func MinutesToTime(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CalculateTimeOverlap 计算两个时段重叠的分钟数。
// 结束早于开始的时段视为跨越午夜，两个时段各自独立处理后再求交集。
func CalculateTimeOverlap(start1, end1, start2, end2 string) (int, error) {
	s1, e1, err := window(start1, end1)
	if err != nil {
		return 0, err
	}
	s2, e2, err := window(start2, end2)
	if err != nil {
		return 0, err
	}

	overlap := min(e1, e2) - max(s1, s2)
	if overlap < 0 {
		return 0, nil
	}
	return overlap, nil
}

// IsTimeInRange 判断 t 是否落在 [start, end] 内，支持跨午夜时段
func IsTimeInRange(t, start, end string) (bool, error) {
	m, err := TimeToMinutes(t)
	if err != nil {
		return false, err
	}
	s, err := TimeToMinutes(start)
	if err != nil {
		return false, err
	}
	e, err := TimeToMinutes(end)
	if err != nil {
		return false, err
	}

	if e < s {
		return m >= s || m <= e, nil
	}
	return m >= s && m <= e, nil
}

// window 把时段转换为 [start, end) 分钟区间，跨午夜时 end 加一天
func window(start, end string) (int, int, error) {
	s, err := TimeToMinutes(start)
	if err != nil {
		return 0, 0, err
	}
	e, err := TimeToMinutes(end)
	if err != nil {
		return 0, 0, err
	}
	if e < s {
		e += minutesPerDay
	}
	return s, e, nil
}
