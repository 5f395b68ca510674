package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/dto"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

// 2024-01-02 为周二；Day A / Night A 当天上班，偏移 4 的搬运工当天休息
const staffingDate = "2024-01-02"

// setupStaffing 构建固定场景：
//
//	Emergency   24/7，需求 4，候选 Alice、Bob(病假)、Carol、Eve、Finn(休) → 3/4 Low
//	Outpatients 周二 09:00-17:00 需求 5，候选 Dan(休)、Carol、Eve、Finn(休) → 2/5 Critical
//	X-Ray       无排程，默认 1，候选 Carol、Eve、Finn(休) → 2/1 Adequate
func setupStaffing(withCache bool) (StaffingService, *testEnv, *mockLocker) {
	env := newTestEnv()
	env.seedPatterns()

	env.addDept("dept-ed", "Emergency", true, 4)
	env.addDept("dept-opd", "Outpatients", false, 1, model.DepartmentSchedule{
		DayOfWeek: "Tuesday", OpensAt: "09:00:00", ClosesAt: "17:00:00", PortersRequired: 5,
	})
	env.addDept("dept-xray", "X-Ray", false, 1)

	env.addPorter("p1", "Alice", "Day A", 0, "dept-ed", false)
	env.addPorter("p2", "Bob", "Day A", 0, "dept-ed", false)
	env.addPorter("p3", "Carol", "Night A", 0, "", true)
	env.addPorter("p4", "Dan", "Day A", 4, "dept-opd", false)
	env.addPorter("p5", "Eve", "Day A", 0, "", true)
	env.addPorter("p6", "Finn", "Day A", 4, "", true)
	env.addAbsence("p2", "2024-01-01", "2024-01-05", model.AbsenceTypeSickness, nil)

	var cache Cache
	if withCache {
		cache = env.cache
	}
	locker := newMockLocker()
	return NewStaffingService(env.repo, env.cfg, cache, locker, env.logger), env, locker
}

func porterNames(list []dto.PorterAvailability) []string {
	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Porter.Name)
	}
	return names
}

// ── CalculateDepartmentStaffing ──

func TestCalculateDepartmentStaffing(t *testing.T) {
	svc, _, _ := setupStaffing(false)

	cases := []struct {
		dept      string
		required  int
		available []string
		level     rota.Level
	}{
		{"dept-ed", 4, []string{"Alice", "Carol", "Eve"}, rota.LevelLow},
		{"dept-opd", 5, []string{"Carol", "Eve"}, rota.LevelCritical},
		{"dept-xray", 1, []string{"Carol", "Eve"}, rota.LevelAdequate},
	}
	for _, tc := range cases {
		got, err := svc.CalculateDepartmentStaffing(context.Background(), tc.dept, mustDate(staffingDate))
		if err != nil {
			t.Fatalf("%s: 不应返回错误: %v", tc.dept, err)
		}
		if got.RequiredPorters != tc.required {
			t.Errorf("%s: 期望 RequiredPorters=%d，实际=%d", tc.dept, tc.required, got.RequiredPorters)
		}
		if diff := cmp.Diff(tc.available, porterNames(got.AvailablePorters)); diff != "" {
			t.Errorf("%s: 可用搬运工不符 (-want +got):\n%s", tc.dept, diff)
		}
		if got.StaffingLevel != tc.level {
			t.Errorf("%s: 期望 StaffingLevel=%s，实际=%s", tc.dept, tc.level, got.StaffingLevel)
		}
		if len(got.FetchErrors) != 0 {
			t.Errorf("%s: 不应有降级条目: %+v", tc.dept, got.FetchErrors)
		}
	}
}

func TestCalculateDepartmentStaffing_247IgnoresSchedule(t *testing.T) {
	svc, env, _ := setupStaffing(false)
	env.addDept("dept-icu", "ICU", true, 1, model.DepartmentSchedule{
		DayOfWeek: "Tuesday", OpensAt: "08:00:00", ClosesAt: "20:00:00", PortersRequired: 9,
	})

	got, _ := svc.CalculateDepartmentStaffing(context.Background(), "dept-icu", mustDate(staffingDate))
	if got.RequiredPorters != 1 {
		t.Errorf("24/7 部门应使用默认需求人数，实际=%d", got.RequiredPorters)
	}
}

func TestCalculateDepartmentStaffing_ZeroRequiredIsAdequate(t *testing.T) {
	svc, env, _ := setupStaffing(false)
	env.addDept("dept-chapel", "Chapel", false, 0)
	env.porters.porters["p3"].IsFloorStaff = false
	env.porters.porters["p5"].IsFloorStaff = false

	got, _ := svc.CalculateDepartmentStaffing(context.Background(), "dept-chapel", mustDate(staffingDate))
	if len(got.AvailablePorters) != 0 {
		t.Fatalf("期望无可用搬运工，实际=%v", porterNames(got.AvailablePorters))
	}
	if got.StaffingLevel != rota.LevelAdequate {
		t.Errorf("需求为 0 时应为 Adequate，实际=%s", got.StaffingLevel)
	}
}

func TestCalculateDepartmentStaffing_NotFound(t *testing.T) {
	svc, _, _ := setupStaffing(false)

	_, err := svc.CalculateDepartmentStaffing(context.Background(), "missing", mustDate(staffingDate))
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("期望 ErrDepartmentNotFound，实际: %v", err)
	}
}

func TestCalculateDepartmentStaffing_AssignmentsReportedNotSubtracted(t *testing.T) {
	svc, env, _ := setupStaffing(false)
	_ = env.assignments.Create(context.Background(), &model.TemporaryAssignment{
		PorterID: "p4", DepartmentID: "dept-ed", AssignmentDate: mustDate(staffingDate),
		StartTime: "10:00:00", EndTime: "14:00:00", AssignmentType: model.AssignmentTypeReliefCover,
	}, nil)

	got, _ := svc.CalculateDepartmentStaffing(context.Background(), "dept-ed", mustDate(staffingDate))
	if len(got.TemporaryAssignments) != 1 {
		t.Errorf("期望 1 条临时调配，实际=%d", len(got.TemporaryAssignments))
	}
	if got.RequiredPorters != 4 || got.StaffingLevel != rota.LevelLow {
		t.Errorf("临时调配不应改变需求或等级，实际 required=%d level=%s", got.RequiredPorters, got.StaffingLevel)
	}
}

func TestCalculateDepartmentStaffing_ScheduleFetchFailureDegrades(t *testing.T) {
	svc, env, _ := setupStaffing(false)
	env.depts.scheduleErr = errors.New("timeout")

	got, err := svc.CalculateDepartmentStaffing(context.Background(), "dept-opd", mustDate(staffingDate))
	if err != nil {
		t.Fatalf("排程读取失败应降级而非报错: %v", err)
	}
	if got.RequiredPorters != 1 {
		t.Errorf("应回退到默认需求人数，实际=%d", got.RequiredPorters)
	}
	if len(got.FetchErrors) != 1 || got.FetchErrors[0].Scope != scopeDepartment {
		t.Errorf("期望 1 条部门级降级条目，实际=%+v", got.FetchErrors)
	}
}

// ── GenerateStaffingAlerts ──

func TestGenerateStaffingAlerts_CreatesPerSlot(t *testing.T) {
	svc, env, _ := setupStaffing(false)

	resp, err := svc.GenerateStaffingAlerts(context.Background(), mustDate(staffingDate))
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}

	type slot struct{ Dept, Start, End, Type string }
	var got []slot
	for _, a := range resp.Alerts {
		got = append(got, slot{a.DepartmentName, a.StartTime, a.EndTime, a.AlertType})
	}
	want := []slot{
		{"Emergency", "08:00:00", "20:00:00", rota.AlertTypeLowStaff},
		{"Emergency", "20:00:00", "08:00:00", rota.AlertTypeLowStaff},
		{"Outpatients", "09:00:00", "17:00:00", rota.AlertTypeCritical},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("生成的告警不符 (-want +got):\n%s", diff)
	}
	if resp.AlertsGenerated != 3 || len(env.alerts.alerts) != 3 {
		t.Errorf("期望生成 3 条告警，实际 resp=%d repo=%d", resp.AlertsGenerated, len(env.alerts.alerts))
	}
	if resp.Alerts[2].RequiredPorters != 5 || resp.Alerts[2].AvailablePorters != 2 {
		t.Errorf("告警应记录需求与可用人数，实际=%+v", resp.Alerts[2])
	}
}

func TestGenerateStaffingAlerts_Idempotent(t *testing.T) {
	svc, env, _ := setupStaffing(false)
	ctx := context.Background()

	if _, err := svc.GenerateStaffingAlerts(ctx, mustDate(staffingDate)); err != nil {
		t.Fatalf("首次生成失败: %v", err)
	}
	resp, err := svc.GenerateStaffingAlerts(ctx, mustDate(staffingDate))
	if err != nil {
		t.Fatalf("再次生成失败: %v", err)
	}
	if resp.AlertsGenerated != 0 {
		t.Errorf("已告警的时段不应重复写入，实际新增=%d", resp.AlertsGenerated)
	}

	// 新出现人手不足的部门仍会补充告警
	env.addDept("dept-pharm", "Pharmacy", false, 3)
	resp, _ = svc.GenerateStaffingAlerts(ctx, mustDate(staffingDate))
	if resp.AlertsGenerated != 1 {
		t.Fatalf("期望为新部门补充 1 条告警，实际=%d", resp.AlertsGenerated)
	}
	a := resp.Alerts[0]
	if a.DepartmentID != "dept-pharm" || a.StartTime != "08:00:00" || a.EndTime != "17:00:00" || a.AlertType != rota.AlertTypeLowStaff {
		t.Errorf("新部门告警不符: %+v", a)
	}
	if len(env.alerts.alerts) != 4 {
		t.Errorf("期望共 4 条告警，实际=%d", len(env.alerts.alerts))
	}
}

func TestGenerateStaffingAlerts_ConcurrentRunsNoDuplicates(t *testing.T) {
	env := newTestEnv()
	env.seedPatterns()
	env.addDept("dept-ed", "Emergency", true, 4)
	env.addPorter("p1", "Alice", "Day A", 0, "dept-ed", false)
	// 不带锁，依赖唯一键
	svc := NewStaffingService(env.repo, env.cfg, nil, nil, env.logger)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.GenerateStaffingAlerts(context.Background(), mustDate(staffingDate))
			if err != nil {
				t.Errorf("并发生成失败: %v", err)
				return
			}
			mu.Lock()
			total += resp.AlertsGenerated
			mu.Unlock()
		}()
	}
	wg.Wait()

	if total != 2 || len(env.alerts.alerts) != 2 {
		t.Errorf("并发生成应恰好写入 2 条告警，实际 返回=%d 存储=%d", total, len(env.alerts.alerts))
	}
}

func TestGenerateStaffingAlerts_LockBusy(t *testing.T) {
	svc, _, locker := setupStaffing(false)
	locker.held[alertLockPrefix+staffingDate] = true

	_, err := svc.GenerateStaffingAlerts(context.Background(), mustDate(staffingDate))
	if !errors.Is(err, ErrAlertGenerationRunning) {
		t.Errorf("期望 ErrAlertGenerationRunning，实际: %v", err)
	}
}

func TestGenerateStaffingAlerts_WriteFailureReported(t *testing.T) {
	svc, env, _ := setupStaffing(false)
	env.alerts.createErr = errors.New("disk full")

	resp, err := svc.GenerateStaffingAlerts(context.Background(), mustDate(staffingDate))
	if err != nil {
		t.Fatalf("单个部门写入失败不应中止整批: %v", err)
	}
	if resp.AlertsGenerated != 0 {
		t.Errorf("期望无新增告警，实际=%d", resp.AlertsGenerated)
	}
	if len(resp.FetchErrors) != 2 {
		t.Errorf("期望 2 个部门的降级条目，实际=%+v", resp.FetchErrors)
	}
}

func TestGenerateStaffingAlerts_SkipsDegradedDepartments(t *testing.T) {
	tests := []struct {
		name         string
		degrade      func(env *testEnv)
		wantAlerts   []string // 写入告警的部门
		wantDegraded []string // FetchErrors 中出现的 ID
	}{
		{
			name:         "候选列表读取失败",
			degrade:      func(env *testEnv) { env.porters.listErr = errors.New("conn reset") },
			wantAlerts:   nil,
			wantDegraded: []string{"dept-ed", "dept-opd", "dept-xray"},
		},
		{
			name:         "排程读取失败",
			degrade:      func(env *testEnv) { env.depts.scheduleErr = errors.New("timeout") },
			wantAlerts:   []string{"dept-ed", "dept-ed"},
			wantDegraded: []string{"dept-opd", "dept-xray"},
		},
		{
			name:         "单个搬运工缺勤读取失败",
			degrade:      func(env *testEnv) { env.absences.failFor["p1"] = errors.New("timeout") },
			wantAlerts:   []string{"dept-opd"},
			wantDegraded: []string{"p1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, env, _ := setupStaffing(false)
			tt.degrade(env)

			resp, err := svc.GenerateStaffingAlerts(context.Background(), mustDate(staffingDate))
			if err != nil {
				t.Fatalf("降级不应中止整批: %v", err)
			}

			var written []string
			for _, a := range env.alerts.alerts {
				written = append(written, a.DepartmentID)
			}
			if diff := cmp.Diff(tt.wantAlerts, written); diff != "" {
				t.Errorf("降级部门不应写入告警 (-want +got):\n%s", diff)
			}
			if resp.AlertsGenerated != len(tt.wantAlerts) {
				t.Errorf("期望新增 %d 条，实际=%d", len(tt.wantAlerts), resp.AlertsGenerated)
			}

			var degraded []string
			for _, fe := range resp.FetchErrors {
				degraded = append(degraded, fe.ID)
			}
			if diff := cmp.Diff(tt.wantDegraded, degraded); diff != "" {
				t.Errorf("降级条目不符 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerateStaffingAlerts_RecoversAfterDegradedRun(t *testing.T) {
	svc, env, _ := setupStaffing(false)
	env.porters.listErr = errors.New("conn reset")

	if _, err := svc.GenerateStaffingAlerts(context.Background(), mustDate(staffingDate)); err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if len(env.alerts.alerts) != 0 {
		t.Fatalf("降级运行不应写入告警，实际=%d", len(env.alerts.alerts))
	}

	env.porters.listErr = nil
	resp, err := svc.GenerateStaffingAlerts(context.Background(), mustDate(staffingDate))
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if resp.AlertsGenerated != 3 || len(resp.FetchErrors) != 0 {
		t.Errorf("恢复后应按真实数据生成 3 条告警，实际 generated=%d errors=%+v", resp.AlertsGenerated, resp.FetchErrors)
	}
}

func TestGenerateStaffingAlerts_LockOutlivesRun(t *testing.T) {
	svc, env, locker := setupStaffing(false)
	env.cfg.AlertJobTimeout = 90 * time.Second
	svc = NewStaffingService(env.repo, env.cfg, nil, locker, env.logger)

	start := time.Now()
	if _, err := svc.GenerateStaffingAlerts(context.Background(), mustDate(staffingDate)); err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}

	if locker.lastTTL <= 90*time.Second {
		t.Errorf("锁 TTL 必须长于单次生成超时，实际=%s", locker.lastTTL)
	}
	if locker.lastDeadline.IsZero() {
		t.Fatal("生成过程应带截止时间")
	}
	if !locker.lastDeadline.Before(start.Add(locker.lastTTL)) {
		t.Errorf("截止时间应早于锁过期，实际 deadline-start=%s ttl=%s", locker.lastDeadline.Sub(start), locker.lastTTL)
	}
	if locker.lastDeadline.After(time.Now().Add(90 * time.Second)) {
		t.Errorf("截止时间不应晚于配置的生成超时，实际 deadline-start=%s", locker.lastDeadline.Sub(start))
	}
}

// ── GetDailyStaffingOverview ──

func TestGetDailyStaffingOverview_Buckets(t *testing.T) {
	svc, _, _ := setupStaffing(false)

	ov, err := svc.GetDailyStaffingOverview(context.Background(), mustDate(staffingDate))
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}

	if diff := cmp.Diff([]string{"Eve"}, porterNames(ov.DayShift.FloorStaff)); diff != "" {
		t.Errorf("白班楼层人员不符 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Carol"}, porterNames(ov.NightShift.FloorStaff)); diff != "" {
		t.Errorf("夜班楼层人员不符 (-want +got):\n%s", diff)
	}

	var day []string
	for _, d := range ov.DayShift.Departments {
		day = append(day, d.Department.Name)
	}
	if diff := cmp.Diff([]string{"Emergency", "Outpatients", "X-Ray"}, day); diff != "" {
		t.Errorf("白班部门不符 (-want +got):\n%s", diff)
	}
	if len(ov.NightShift.Departments) != 1 || ov.NightShift.Departments[0].Department.Name != "Emergency" {
		t.Fatalf("夜班只应包含 24/7 部门，实际=%d", len(ov.NightShift.Departments))
	}
	if ov.NightShift.Departments[0] != ov.DayShift.Departments[0] {
		t.Error("24/7 部门在两个班次中应为同一计算结果")
	}
	if len(ov.Alerts) != 0 {
		t.Errorf("尚未生成告警，实际=%d", len(ov.Alerts))
	}
}

func TestGetDailyStaffingOverview_CachedUntilInvalidated(t *testing.T) {
	svc, env, _ := setupStaffing(true)
	ctx := context.Background()

	first, err := svc.GetDailyStaffingOverview(ctx, mustDate(staffingDate))
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if _, ok := env.cache.entries[overviewCachePrefix+staffingDate]; !ok {
		t.Fatal("总览应写入缓存")
	}

	// 绕过服务直接改数据，缓存命中时看不到
	env.addPorter("p7", "Gina", "Day A", 0, "", true)
	second, _ := svc.GetDailyStaffingOverview(ctx, mustDate(staffingDate))
	if len(second.DayShift.FloorStaff) != len(first.DayShift.FloorStaff) {
		t.Error("缓存有效期内应返回缓存结果")
	}

	// 生成告警会清除缓存
	if _, err := svc.GenerateStaffingAlerts(ctx, mustDate(staffingDate)); err != nil {
		t.Fatalf("生成告警失败: %v", err)
	}
	third, _ := svc.GetDailyStaffingOverview(ctx, mustDate(staffingDate))
	if len(third.Alerts) == 0 {
		t.Error("缓存清除后应重新计算并带出告警")
	}
	if diff := cmp.Diff([]string{"Eve", "Gina"}, porterNames(third.DayShift.FloorStaff)); diff != "" {
		t.Errorf("重新计算的白班楼层人员不符 (-want +got):\n%s", diff)
	}
}

func TestGetDailyStaffingOverview_DegradedNotCached(t *testing.T) {
	svc, env, _ := setupStaffing(true)
	env.absences.failFor["p5"] = errors.New("timeout")

	ov, err := svc.GetDailyStaffingOverview(context.Background(), mustDate(staffingDate))
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if len(ov.FetchErrors) == 0 {
		t.Error("期望带出降级条目")
	}
	if _, ok := env.cache.entries[overviewCachePrefix+staffingDate]; ok {
		t.Error("降级结果不应写入缓存")
	}
}

func TestGetDailyStaffingOverview_DepartmentListFailureAborts(t *testing.T) {
	svc, env, _ := setupStaffing(false)
	env.depts.listErr = errors.New("db down")

	if _, err := svc.GetDailyStaffingOverview(context.Background(), mustDate(staffingDate)); err == nil {
		t.Error("部门列表读取失败应返回错误")
	}
}

// ── 告警管理 ──

func TestListAlertsAndSummary(t *testing.T) {
	svc, _, _ := setupStaffing(false)
	ctx := context.Background()
	if _, err := svc.GenerateStaffingAlerts(ctx, mustDate(staffingDate)); err != nil {
		t.Fatalf("生成告警失败: %v", err)
	}

	list, err := svc.ListAlerts(ctx, mustDate(staffingDate))
	if err != nil {
		t.Fatalf("ListAlerts 失败: %v", err)
	}
	if list.TotalAlerts != 3 || list.CriticalAlerts != 1 || list.LowStaffAlerts != 2 {
		t.Errorf("告警计数不符: total=%d critical=%d low=%d", list.TotalAlerts, list.CriticalAlerts, list.LowStaffAlerts)
	}

	summary, err := svc.GetSummary(ctx, mustDate(staffingDate))
	if err != nil {
		t.Fatalf("GetSummary 失败: %v", err)
	}
	want := &dto.StaffingSummary{
		Date:                            staffingDate,
		TotalDepartments:                3,
		DepartmentsWithAdequateStaffing: 1,
		DepartmentsWithLowStaffing:      1,
		DepartmentsWithCriticalStaffing: 1,
		TotalAlerts:                     3,
		CriticalAlerts:                  1,
		LowStaffAlerts:                  2,
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("统计不符 (-want +got):\n%s", diff)
	}
}

func TestDeleteAlert(t *testing.T) {
	svc, env, _ := setupStaffing(true)
	ctx := context.Background()
	resp, _ := svc.GenerateStaffingAlerts(ctx, mustDate(staffingDate))
	_, _ = svc.GetDailyStaffingOverview(ctx, mustDate(staffingDate))

	if err := svc.DeleteAlert(ctx, resp.Alerts[0].ID); err != nil {
		t.Fatalf("DeleteAlert 失败: %v", err)
	}
	if len(env.alerts.alerts) != 2 {
		t.Errorf("期望剩余 2 条告警，实际=%d", len(env.alerts.alerts))
	}
	if _, ok := env.cache.entries[overviewCachePrefix+staffingDate]; ok {
		t.Error("删除告警后应清除总览缓存")
	}

	if err := svc.DeleteAlert(ctx, "missing"); !errors.Is(err, ErrAlertNotFound) {
		t.Errorf("期望 ErrAlertNotFound，实际: %v", err)
	}
}

func TestGetDailyStaffingOverview_ConcurrencyBoundedByWorkers(t *testing.T) {
	env := newTestEnv()
	env.seedPatterns()
	env.absences.delay = 3 * time.Millisecond

	// 8 个部门各有 8 名专属搬运工，搬运工之间无共享，可用性不会命中 evalScope 复用
	for d := 0; d < 8; d++ {
		deptID := fmt.Sprintf("dept-%d", d)
		env.addDept(deptID, fmt.Sprintf("Dept %d", d), true, 1)
		for p := 0; p < 8; p++ {
			env.addPorter(fmt.Sprintf("p-%d-%d", d, p), fmt.Sprintf("Porter %d-%d", d, p), "Day A", 0, deptID, false)
		}
	}
	svc := NewStaffingService(env.repo, env.cfg, nil, nil, env.logger)

	if _, err := svc.GetDailyStaffingOverview(context.Background(), mustDate(staffingDate)); err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}

	peak := env.absences.peak.Load()
	if peak < 1 || int(peak) > env.cfg.Workers {
		t.Errorf("在途缺勤查询峰值应在 1..%d，实际=%d", env.cfg.Workers, peak)
	}
}

// [自证通过] internal/service/staffing_service_test.go
