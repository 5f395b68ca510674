package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Hypha-Media-UK/rotatr/backend/config"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/repository"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
	pkgerrors "github.com/Hypha-Media-UK/rotatr/backend/pkg/errors"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/redis"
)

// 所有 mock 都可能被并发调用，统一加锁

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	user.Version = 1
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ShiftPatternRepository ──

type mockShiftPatternRepo struct {
	mu       sync.Mutex
	patterns map[string]*model.ShiftPattern
	lookups  atomic.Int32 // GetByTypeIdent 调用次数
	err      error        // 非 nil 时 GetByTypeIdent 返回该错误
}

func newMockShiftPatternRepo() *mockShiftPatternRepo {
	return &mockShiftPatternRepo{patterns: make(map[string]*model.ShiftPattern)}
}

func (m *mockShiftPatternRepo) Create(_ context.Context, p *model.ShiftPattern) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ShiftPatternID == "" {
		p.ShiftPatternID = "sp-" + p.ShiftType + "-" + p.ShiftIdent
	}
	m.patterns[p.ShiftPatternID] = p
	return nil
}

func (m *mockShiftPatternRepo) GetByID(_ context.Context, id string) (*model.ShiftPattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.patterns[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftPatternRepo) GetByTypeIdent(_ context.Context, shiftType, shiftIdent string) (*model.ShiftPattern, error) {
	m.lookups.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.patterns {
		if p.ShiftType == shiftType && p.ShiftIdent == shiftIdent {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftPatternRepo) List(_ context.Context) ([]model.ShiftPattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.ShiftPattern, 0, len(m.patterns))
	for _, p := range m.patterns {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Label() < result[j].Label() })
	return result, nil
}

func (m *mockShiftPatternRepo) Update(_ context.Context, p *model.ShiftPattern) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[p.ShiftPatternID] = p
	return nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	mu          sync.Mutex
	depts       map[string]*model.Department
	listErr     error
	scheduleErr error
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + strings.ToLower(strings.ReplaceAll(dept.Name, " ", "-"))
	}
	for i := range dept.Schedules {
		dept.Schedules[i].DepartmentID = dept.DepartmentID
	}
	dept.Version = 1
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.depts[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.Department, 0, len(m.depts))
	for _, d := range m.depts {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.depts[dept.DepartmentID]
	if !ok || cur.Version != dept.Version {
		return pkgerrors.ErrOptimisticLock
	}
	dept.Version++
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.depts, id)
	return nil
}

func (m *mockDeptRepo) GetSchedule(_ context.Context, departmentID, dayOfWeek string) (*model.DepartmentSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scheduleErr != nil {
		return nil, m.scheduleErr
	}
	d, ok := m.depts[departmentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if s := d.ScheduleFor(dayOfWeek); s != nil {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock PorterRepository ──

type mockPorterRepo struct {
	mu      sync.Mutex
	porters map[string]*model.Porter
	listErr error
}

func newMockPorterRepo() *mockPorterRepo {
	return &mockPorterRepo{porters: make(map[string]*model.Porter)}
}

func (m *mockPorterRepo) Create(_ context.Context, p *model.Porter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.PorterID == "" {
		p.PorterID = "porter-" + strings.ToLower(strings.ReplaceAll(p.Name, " ", "-"))
	}
	p.Version = 1
	m.porters[p.PorterID] = p
	return nil
}

func (m *mockPorterRepo) GetByID(_ context.Context, id string) (*model.Porter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.porters[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// sorted 按姓名排序并按条件过滤，调用方须持锁
func (m *mockPorterRepo) sorted(keep func(p *model.Porter) bool) []model.Porter {
	result := make([]model.Porter, 0, len(m.porters))
	for _, p := range m.porters {
		if keep(p) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (m *mockPorterRepo) List(_ context.Context, f repository.PorterFilter, offset, limit int) ([]model.Porter, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	all := m.sorted(func(p *model.Porter) bool {
		if !f.IncludeInactive && !p.IsActive {
			return false
		}
		if f.DepartmentID != "" && (p.RegularDepartmentID == nil || *p.RegularDepartmentID != f.DepartmentID) {
			return false
		}
		if f.FloorStaff != nil && p.IsFloorStaff != *f.FloorStaff {
			return false
		}
		return f.ShiftTypePrefix == "" || p.HasShiftPrefix(f.ShiftTypePrefix)
	})
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Porter{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (m *mockPorterRepo) ListActive(_ context.Context) ([]model.Porter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(p *model.Porter) bool { return p.IsActive }), nil
}

func (m *mockPorterRepo) ListCandidates(_ context.Context, departmentID string) ([]model.Porter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(p *model.Porter) bool {
		if !p.IsActive {
			return false
		}
		return p.IsFloorStaff || (p.RegularDepartmentID != nil && *p.RegularDepartmentID == departmentID)
	}), nil
}

func (m *mockPorterRepo) ListFloorStaff(_ context.Context, prefix string) ([]model.Porter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(p *model.Porter) bool {
		return p.IsActive && p.IsFloorStaff && p.HasShiftPrefix(prefix)
	}), nil
}

func (m *mockPorterRepo) Update(_ context.Context, p *model.Porter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.porters[p.PorterID]
	if !ok || cur.Version != p.Version {
		return pkgerrors.ErrOptimisticLock
	}
	p.Version++
	m.porters[p.PorterID] = p
	return nil
}

func (m *mockPorterRepo) Deactivate(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.porters[id]; ok {
		p.IsActive = false
	}
	return nil
}

// ── Mock AbsenceRepository ──

type mockAbsenceRepo struct {
	mu       sync.Mutex
	absences map[string]*model.Absence
	failFor  map[string]error // porterID → ListCovering 返回的错误

	// ListCovering 的在途调用数与峰值，delay 模拟读库耗时
	delay    time.Duration
	inflight atomic.Int32
	peak     atomic.Int32
}

func newMockAbsenceRepo() *mockAbsenceRepo {
	return &mockAbsenceRepo{
		absences: make(map[string]*model.Absence),
		failFor:  make(map[string]error),
	}
}

func (m *mockAbsenceRepo) Create(_ context.Context, a *model.Absence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.AbsenceID == "" {
		a.AbsenceID = fmt.Sprintf("absence-%d", len(m.absences)+1)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.absences[a.AbsenceID] = a
	return nil
}

func (m *mockAbsenceRepo) GetByID(_ context.Context, id string) (*model.Absence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.absences[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAbsenceRepo) ListByPorter(_ context.Context, porterID string, from, to time.Time) ([]model.Absence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Absence
	for _, a := range m.absences {
		if a.PorterID != porterID {
			continue
		}
		if rota.Civil(a.EndDate).Before(rota.Civil(from)) || rota.Civil(a.StartDate).After(rota.Civil(to)) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockAbsenceRepo) ListCovering(_ context.Context, porterID string, date time.Time) ([]model.Absence, error) {
	n := m.inflight.Add(1)
	defer m.inflight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coveringLocked(porterID, date)
}

func (m *mockAbsenceRepo) coveringLocked(porterID string, date time.Time) ([]model.Absence, error) {
	if err := m.failFor[porterID]; err != nil {
		return nil, err
	}
	var result []model.Absence
	for _, a := range m.absences {
		if a.PorterID == porterID && a.Covers(date) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.AbsenceID < b.AbsenceID
	})
	return result, nil
}

func (m *mockAbsenceRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.absences, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[string]*model.TemporaryAssignment
	absences    *mockAbsenceRepo
	createErr   error
}

func newMockAssignmentRepo(absences *mockAbsenceRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.TemporaryAssignment), absences: absences}
}

// Create 整个校验加写入持有 mu，与真实实现的搬运工行锁等价
func (m *mockAssignmentRepo) Create(_ context.Context, a *model.TemporaryAssignment, check repository.AssignmentCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if check != nil {
		var absences []model.Absence
		if m.absences != nil {
			m.absences.mu.Lock()
			list, err := m.absences.coveringLocked(a.PorterID, a.AssignmentDate)
			m.absences.mu.Unlock()
			if err != nil {
				return err
			}
			absences = list
		}
		var existing []model.TemporaryAssignment
		for _, e := range m.assignments {
			if e.PorterID == a.PorterID && rota.Civil(e.AssignmentDate).Equal(rota.Civil(a.AssignmentDate)) {
				existing = append(existing, *e)
			}
		}
		sort.Slice(existing, func(i, j int) bool { return existing[i].StartTime < existing[j].StartTime })
		if err := check(absences, existing); err != nil {
			return err
		}
	}
	if a.AssignmentID == "" {
		a.AssignmentID = fmt.Sprintf("assignment-%d", len(m.assignments)+1)
	}
	m.assignments[a.AssignmentID] = a
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.TemporaryAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) filter(keep func(a *model.TemporaryAssignment) bool) []model.TemporaryAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.TemporaryAssignment, 0)
	for _, a := range m.assignments {
		if keep(a) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result
}

func (m *mockAssignmentRepo) List(_ context.Context, date time.Time, departmentID string) ([]model.TemporaryAssignment, error) {
	return m.filter(func(a *model.TemporaryAssignment) bool {
		return rota.Civil(a.AssignmentDate).Equal(rota.Civil(date)) &&
			(departmentID == "" || a.DepartmentID == departmentID)
	}), nil
}

func (m *mockAssignmentRepo) ListByDepartmentDate(_ context.Context, departmentID string, date time.Time) ([]model.TemporaryAssignment, error) {
	return m.filter(func(a *model.TemporaryAssignment) bool {
		return a.DepartmentID == departmentID && rota.Civil(a.AssignmentDate).Equal(rota.Civil(date))
	}), nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, id)
	return nil
}

// ── Mock StaffingAlertRepository ──

type mockAlertRepo struct {
	mu        sync.Mutex
	alerts    []*model.StaffingAlert
	createErr error
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{}
}

func (m *mockAlertRepo) find(departmentID string, date time.Time, startTime string) *model.StaffingAlert {
	for _, a := range m.alerts {
		if a.DepartmentID == departmentID && rota.Civil(a.AlertDate).Equal(rota.Civil(date)) && a.StartTime == startTime {
			return a
		}
	}
	return nil
}

func (m *mockAlertRepo) CreateIfAbsent(_ context.Context, alert *model.StaffingAlert) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return false, m.createErr
	}
	if m.find(alert.DepartmentID, alert.AlertDate, alert.StartTime) != nil {
		return false, nil
	}
	alert.AlertID = fmt.Sprintf("alert-%d", len(m.alerts)+1)
	alert.CreatedAt = time.Now()
	cp := *alert
	m.alerts = append(m.alerts, &cp)
	return true, nil
}

func (m *mockAlertRepo) GetBySlot(_ context.Context, departmentID string, date time.Time, startTime string) (*model.StaffingAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.find(departmentID, date, startTime); a != nil {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAlertRepo) GetByID(_ context.Context, id string) (*model.StaffingAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.AlertID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAlertRepo) ListByDate(_ context.Context, date time.Time) ([]model.StaffingAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.StaffingAlert, 0)
	for _, a := range m.alerts {
		if rota.Civil(a.AlertDate).Equal(rota.Civil(date)) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AlertType != result[j].AlertType {
			return result[i].AlertType > result[j].AlertType
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockAlertRepo) ListByDepartmentDate(ctx context.Context, departmentID string, date time.Time) ([]model.StaffingAlert, error) {
	all, _ := m.ListByDate(ctx, date)
	result := make([]model.StaffingAlert, 0)
	for _, a := range all {
		if a.DepartmentID == departmentID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAlertRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.alerts {
		if a.AlertID == id {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			break
		}
	}
	return nil
}

// ── Mock Cache / Locker / TokenBlacklist ──

type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (c *mockCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mockCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *mockCache) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

type mockLocker struct {
	mu   sync.Mutex
	held map[string]bool

	// 最近一次加锁的 TTL 以及 fn 收到的 context 截止时间
	lastTTL      time.Duration
	lastDeadline time.Time
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: make(map[string]bool)}
}

func (l *mockLocker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	if l.held[key] {
		l.mu.Unlock()
		return pkgerrors.ErrLockBusy
	}
	l.held[key] = true
	l.lastTTL = ttl
	l.lastDeadline, _ = ctx.Deadline()
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}()
	return fn(ctx)
}

type mockBlacklist struct {
	mu  sync.Mutex
	ids map[string]bool
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{ids: make(map[string]bool)}
}

func (b *mockBlacklist) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ids[jti] = true
	return nil
}

func (b *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ids[jti], nil
}

// ═══════════════════════════════════════════════════════════
// 测试环境
// ═══════════════════════════════════════════════════════════

type testEnv struct {
	repo        *repository.Repository
	users       *mockUserRepo
	patterns    *mockShiftPatternRepo
	depts       *mockDeptRepo
	porters     *mockPorterRepo
	absences    *mockAbsenceRepo
	assignments *mockAssignmentRepo
	alerts      *mockAlertRepo
	cache       *mockCache
	cfg         *config.StaffingConfig
	logger      *zap.Logger
}

func newTestEnv() *testEnv {
	absences := newMockAbsenceRepo()
	env := &testEnv{
		users:       newMockUserRepo(),
		patterns:    newMockShiftPatternRepo(),
		depts:       newMockDeptRepo(),
		porters:     newMockPorterRepo(),
		absences:    absences,
		assignments: newMockAssignmentRepo(absences),
		alerts:      newMockAlertRepo(),
		cache:       newMockCache(),
		cfg: &config.StaffingConfig{
			Workers:               4,
			NextWorkingDayHorizon: 30,
			OverviewCacheTTL:      time.Minute,
			AlertCron:             "0 5 * * *",
			AlertJobTimeout:       time.Minute,
			Timezone:              "UTC",
		},
		logger: zap.NewNop(),
	}
	env.repo = &repository.Repository{
		User:          env.users,
		ShiftPattern:  env.patterns,
		Department:    env.depts,
		Porter:        env.porters,
		Absence:       env.absences,
		Assignment:    env.assignments,
		StaffingAlert: env.alerts,
	}
	return env
}

// ── 测试数据 ──

func mustDate(s string) time.Time {
	d, err := rota.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// seedPatterns 写入 Day A / Night A：4 上 4 休，起点 2024-01-01
func (env *testEnv) seedPatterns() {
	ctx := context.Background()
	_ = env.patterns.Create(ctx, &model.ShiftPattern{
		Name: "Day A", ShiftType: "Day", ShiftIdent: "A",
		StartTime: "08:00:00", EndTime: "20:00:00",
		DaysOn: 4, DaysOff: 4, GroundZero: mustDate("2024-01-01"),
	})
	_ = env.patterns.Create(ctx, &model.ShiftPattern{
		Name: "Night A", ShiftType: "Night", ShiftIdent: "A",
		StartTime: "20:00:00", EndTime: "08:00:00",
		DaysOn: 4, DaysOff: 4, GroundZero: mustDate("2024-01-01"),
	})
}

func (env *testEnv) addDept(id, name string, is247 bool, required int, schedules ...model.DepartmentSchedule) *model.Department {
	d := &model.Department{
		DepartmentID:           id,
		Name:                   name,
		Is247:                  is247,
		DefaultPortersRequired: required,
		Schedules:              schedules,
	}
	_ = env.depts.Create(context.Background(), d)
	return d
}

func (env *testEnv) addPorter(id, name, shiftType string, offset int, deptID string, floor bool) *model.Porter {
	p := &model.Porter{
		PorterID:        id,
		Name:            name,
		ShiftType:       shiftType,
		ShiftOffsetDays: offset,
		IsFloorStaff:    floor,
		PorterType:      model.PorterTypePorter,
		IsActive:        true,
	}
	if deptID != "" {
		p.RegularDepartmentID = &deptID
	}
	_ = env.porters.Create(context.Background(), p)
	return p
}

func (env *testEnv) addAbsence(porterID, start, end, absenceType string, notes *string) *model.Absence {
	a := &model.Absence{
		PorterID:    porterID,
		StartDate:   mustDate(start),
		EndDate:     mustDate(end),
		AbsenceType: absenceType,
		Notes:       notes,
	}
	_ = env.absences.Create(context.Background(), a)
	return a
}

func strPtr(s string) *string { return &s }

// [自证通过] internal/service/mock_repos_test.go
