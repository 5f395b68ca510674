package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/dto"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/repository"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

// ── 排班引擎公共错误 ──

var (
	ErrPorterNotFound       = errors.New("搬运工不存在")
	ErrShiftPatternNotFound = errors.New("班次模式不存在")
	ErrInvalidShiftType     = errors.New("班次类型格式无效")
	ErrInvalidDateRange     = errors.New("日期区间无效")
)

// availabilityErrorReason 可用性计算内部失败时对外的冲突原因
const availabilityErrorReason = "Error calculating availability"

// isPatternResolutionFailure 班次类型格式错误或找不到班次模式：按不上班处理，不向上抛出
func isPatternResolutionFailure(err error) bool {
	return errors.Is(err, ErrInvalidShiftType) || errors.Is(err, ErrShiftPatternNotFound)
}

// engine 班次周期判定与可用性解析，供 ShiftCalculationService 与 StaffingService 共用
type engine struct {
	repo    *repository.Repository
	logger  *zap.Logger
	workers int
}

func newEngine(repo *repository.Repository, workers int, logger *zap.Logger) *engine {
	if workers < 1 {
		workers = 1
	}
	return &engine{repo: repo, logger: logger, workers: workers}
}

// ═══════════════════════════════════════════════════════════
// evalScope：单次请求、单个日期内的查询结果复用
// ═══════════════════════════════════════════════════════════

type patternResult struct {
	pattern *model.ShiftPattern
	err     error
}

type availabilityResult struct {
	availability dto.PorterAvailability
	err          error
}

// evalScope 同一请求内同一班次类型只查一次库，同一搬运工只解析一次可用性。
// 仅缓存确定性结果，读库失败不缓存。
type evalScope struct {
	date time.Time

	group        singleflight.Group
	mu           sync.Mutex
	patterns     map[string]patternResult
	availability map[string]availabilityResult
}

func newEvalScope(date time.Time) *evalScope {
	return &evalScope{
		date:         rota.Civil(date),
		patterns:     make(map[string]patternResult),
		availability: make(map[string]availabilityResult),
	}
}

// ── 班次模式解析 ──

func (e *engine) fetchPattern(ctx context.Context, shiftType string) (*model.ShiftPattern, error) {
	typ, ident, err := rota.ParseShiftType(shiftType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidShiftType, shiftType)
	}

	pattern, err := e.repo.ShiftPattern.GetByTypeIdent(ctx, typ, ident)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrShiftPatternNotFound, shiftType)
		}
		return nil, fmt.Errorf("查询班次模式失败: %w", err)
	}
	return pattern, nil
}

func (e *engine) lookupPattern(ctx context.Context, sc *evalScope, shiftType string) (*model.ShiftPattern, error) {
	sc.mu.Lock()
	if r, ok := sc.patterns[shiftType]; ok {
		sc.mu.Unlock()
		return r.pattern, r.err
	}
	sc.mu.Unlock()

	v, err, _ := sc.group.Do(shiftType, func() (interface{}, error) {
		// 上一轮 Do 可能已在两次检查之间写入
		sc.mu.Lock()
		r, ok := sc.patterns[shiftType]
		sc.mu.Unlock()
		if ok {
			return r.pattern, r.err
		}

		pattern, err := e.fetchPattern(ctx, shiftType)
		if err == nil || isPatternResolutionFailure(err) {
			sc.mu.Lock()
			sc.patterns[shiftType] = patternResult{pattern: pattern, err: err}
			sc.mu.Unlock()
		}
		return pattern, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.ShiftPattern), nil
}

// ── 班次周期判定 ──

// evaluate 判定搬运工当天是否上班。
// 班次模式解析失败时记录 Warn 并返回 false；只有读库失败才返回 error。
func (e *engine) evaluate(ctx context.Context, sc *evalScope, porter *model.Porter) (bool, *model.ShiftPattern, error) {
	pattern, err := e.lookupPattern(ctx, sc, porter.ShiftType)
	if err != nil {
		if isPatternResolutionFailure(err) {
			e.warnPatternFailure(porter, err)
			return false, nil, nil
		}
		return false, nil, err
	}
	return rota.IsWorking(pattern.Cycle(), porter.ShiftOffsetDays, sc.date), pattern, nil
}

// patternFor 跨日期计算用：解析失败时记录 Warn 并返回 nil 模式
func (e *engine) patternFor(ctx context.Context, porter *model.Porter) (*model.ShiftPattern, error) {
	pattern, err := e.fetchPattern(ctx, porter.ShiftType)
	if err != nil {
		if isPatternResolutionFailure(err) {
			e.warnPatternFailure(porter, err)
			return nil, nil
		}
		return nil, err
	}
	return pattern, nil
}

func (e *engine) warnPatternFailure(porter *model.Porter, err error) {
	e.logger.Warn("班次模式解析失败，按不上班处理",
		zap.String("porter_id", porter.PorterID),
		zap.String("shift_type", porter.ShiftType),
		zap.Error(err),
	)
}

// ── 可用性解析 ──

func unavailableFallback(porter *model.Porter) dto.PorterAvailability {
	return dto.PorterAvailability{
		Porter:         toPorterResponse(porter),
		IsWorking:      false,
		IsAvailable:    false,
		ConflictReason: availabilityErrorReason,
		WorkingHours:   dto.WorkingHours{Start: rota.PlaceholderTime, End: rota.PlaceholderTime},
	}
}

// resolve 计算搬运工当天的可用性，结果总是可用的结构体。
// 读库失败时返回安全默认值（不上班、不可用）以及该错误，供批量计算记录。
func (e *engine) resolve(ctx context.Context, sc *evalScope, porter *model.Porter) (dto.PorterAvailability, error) {
	sc.mu.Lock()
	if r, ok := sc.availability[porter.PorterID]; ok {
		sc.mu.Unlock()
		return r.availability, r.err
	}
	sc.mu.Unlock()

	availability, err := e.resolveUncached(ctx, sc, porter)
	if err == nil {
		sc.mu.Lock()
		sc.availability[porter.PorterID] = availabilityResult{availability: availability}
		sc.mu.Unlock()
	}
	return availability, err
}

func (e *engine) resolveUncached(ctx context.Context, sc *evalScope, porter *model.Porter) (dto.PorterAvailability, error) {
	working, pattern, err := e.evaluate(ctx, sc, porter)
	if err != nil {
		e.logger.Error("计算上班状态失败", zap.String("porter_id", porter.PorterID), zap.Error(err))
		return unavailableFallback(porter), err
	}

	absences, err := e.repo.Absence.ListCovering(ctx, porter.PorterID, sc.date)
	if err != nil {
		e.logger.Error("查询缺勤失败", zap.String("porter_id", porter.PorterID), zap.Error(err))
		return unavailableFallback(porter), fmt.Errorf("查询缺勤失败: %w", err)
	}

	availability := dto.PorterAvailability{
		Porter:       toPorterResponse(porter),
		IsWorking:    working,
		IsAvailable:  working,
		WorkingHours: dto.WorkingHours{Start: rota.PlaceholderTime, End: rota.PlaceholderTime},
	}
	if pattern != nil {
		availability.WorkingHours = dto.WorkingHours{Start: pattern.StartTime, End: pattern.EndTime}
	}
	if len(absences) > 0 {
		// 已按 start_date DESC, created_at DESC, absence_id 排序，取首条
		availability.IsAvailable = false
		availability.ConflictReason = absences[0].Reason()
	}
	return availability, nil
}

// ═══════════════════════════════════════════════════════════
// 批量计算辅助
// ═══════════════════════════════════════════════════════════

// fanOut 以至多 limit 个并发处理 items，fn 自行记录单项失败；
// 只有 context 取消会中止整批。
func fanOut[T any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, i int, item T)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range items {
		i, item := i, items[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, i, item)
			return nil
		})
	}
	return g.Wait()
}

// fetchErrors 并发安全的单项失败收集器
type fetchErrors struct {
	mu   sync.Mutex
	list []dto.FetchError
}

func (f *fetchErrors) add(scope, id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = append(f.list, dto.FetchError{Scope: scope, ID: id, Error: err.Error()})
}

func (f *fetchErrors) merge(list []dto.FetchError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = append(f.list, list...)
}

// items 按 scope、id 排序后返回，无失败时返回 nil
func (f *fetchErrors) items() []dto.FetchError {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.list) == 0 {
		return nil
	}
	out := make([]dto.FetchError, len(f.list))
	copy(out, f.list)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return out[i].ID < out[j].ID
	})
	return out
}

const (
	scopePorter     = "porter"
	scopeDepartment = "department"
)

// resolveAll 并发解析一组搬运工的可用性，结果与输入顺序一致
func (e *engine) resolveAll(ctx context.Context, sc *evalScope, porters []model.Porter, errs *fetchErrors) ([]dto.PorterAvailability, error) {
	results := make([]dto.PorterAvailability, len(porters))
	err := fanOut(ctx, e.workers, porters, func(ctx context.Context, i int, porter model.Porter) {
		availability, err := e.resolve(ctx, sc, &porter)
		if err != nil {
			errs.add(scopePorter, porter.PorterID, err)
		}
		results[i] = availability
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// getPorter 按 ID 查询搬运工并转换未找到错误
func (e *engine) getPorter(ctx context.Context, porterID string) (*model.Porter, error) {
	porter, err := e.repo.Porter.GetByID(ctx, porterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPorterNotFound
		}
		e.logger.Error("查询搬运工失败", zap.String("porter_id", porterID), zap.Error(err))
		return nil, err
	}
	return porter, nil
}

// [自证通过] internal/service/engine.go
