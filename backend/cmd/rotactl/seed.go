package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/dto"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/service"
)

// ═══════════════════════════════════════════════════════════
// 种子文件格式
// ═══════════════════════════════════════════════════════════

type seedFile struct {
	ShiftPatterns []seedPattern    `yaml:"shift_patterns" validate:"dive"`
	Departments   []seedDepartment `yaml:"departments"    validate:"dive"`
	Porters       []seedPorter     `yaml:"porters"        validate:"dive"`
	Users         []seedUser       `yaml:"users"          validate:"dive"`
}

type seedPattern struct {
	Name       string `yaml:"name"        validate:"required"`
	ShiftType  string `yaml:"shift_type"  validate:"required,alphanum"`
	ShiftIdent string `yaml:"shift_ident" validate:"required,alphanum"`
	StartTime  string `yaml:"start_time"  validate:"required,clocktime"`
	EndTime    string `yaml:"end_time"    validate:"required,clocktime"`
	DaysOn     int    `yaml:"days_on"     validate:"min=0"`
	DaysOff    int    `yaml:"days_off"    validate:"min=0"`
	OffsetDays int    `yaml:"offset_days"`
	GroundZero string `yaml:"ground_zero" validate:"required,datetime=2006-01-02"`
}

type seedSchedule struct {
	DayOfWeek       string `yaml:"day_of_week"      validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	OpensAt         string `yaml:"opens_at"         validate:"required,clocktime"`
	ClosesAt        string `yaml:"closes_at"        validate:"required,clocktime"`
	PortersRequired int    `yaml:"porters_required" validate:"min=0"`
}

type seedDepartment struct {
	Name                   string         `yaml:"name"                     validate:"required,min=2"`
	Is247                  bool           `yaml:"is_24_7"`
	DefaultPortersRequired int            `yaml:"default_porters_required" validate:"min=0"`
	Schedules              []seedSchedule `yaml:"schedules"                validate:"max=7,dive"`
}

type seedPorter struct {
	Name            string   `yaml:"name"              validate:"required,min=2"`
	ShiftType       string   `yaml:"shift_type"        validate:"required"`
	ShiftOffsetDays int      `yaml:"shift_offset_days"`
	Department      string   `yaml:"department"` // 常驻部门名称，可空
	IsFloorStaff    bool     `yaml:"is_floor_staff"`
	PorterType      string   `yaml:"porter_type"       validate:"omitempty,oneof=Porter Supervisor"`
	GuaranteedHours *float64 `yaml:"guaranteed_hours"  validate:"omitempty,gte=0,lte=168"`
}

type seedUser struct {
	Name     string `yaml:"name"     validate:"required"`
	Email    string `yaml:"email"    validate:"required,email"`
	Password string `yaml:"password" validate:"required,min=8"`
	Role     string `yaml:"role"     validate:"omitempty,oneof=admin manager user"`
}

// parseSeed 解析并校验种子文件，未知字段视为错误
func parseSeed(r io.Reader) (*seedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f seedFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	if err := model.Validator().Struct(&f); err != nil {
		return nil, fmt.Errorf("种子文件校验失败: %w", err)
	}
	return &f, nil
}

// ═══════════════════════════════════════════════════════════
// 导入
// ═══════════════════════════════════════════════════════════

// seedResult 各类数据新建与跳过的数量
type seedResult struct {
	Created map[string]int
	Skipped map[string]int
}

func newSeedResult() *seedResult {
	return &seedResult{Created: map[string]int{}, Skipped: map[string]int{}}
}

// seeder 通过 Service 层导入，复用业务校验；已存在的数据跳过
type seeder struct {
	patterns service.ShiftPatternService
	depts    service.DepartmentService
	porters  service.PorterService
	auth     service.AuthService
	logger   *zap.Logger
}

func (s *seeder) apply(ctx context.Context, f *seedFile) (*seedResult, error) {
	res := newSeedResult()

	// ── 班次模式 ──
	for _, p := range f.ShiftPatterns {
		_, err := s.patterns.Create(ctx, &dto.CreateShiftPatternRequest{
			Name: p.Name, ShiftType: p.ShiftType, ShiftIdent: p.ShiftIdent,
			StartTime: p.StartTime, EndTime: p.EndTime,
			DaysOn: p.DaysOn, DaysOff: p.DaysOff, OffsetDays: p.OffsetDays,
			GroundZero: p.GroundZero,
		}, "")
		switch {
		case errors.Is(err, service.ErrShiftPatternExists):
			res.Skipped["shift_patterns"]++
		case err != nil:
			return res, fmt.Errorf("班次模式 %s %s: %w", p.ShiftType, p.ShiftIdent, err)
		default:
			res.Created["shift_patterns"]++
		}
	}

	// ── 部门 ──
	for _, d := range f.Departments {
		schedules := make([]dto.DepartmentScheduleRequest, 0, len(d.Schedules))
		for _, sc := range d.Schedules {
			schedules = append(schedules, dto.DepartmentScheduleRequest{
				DayOfWeek: sc.DayOfWeek, OpensAt: sc.OpensAt, ClosesAt: sc.ClosesAt, PortersRequired: sc.PortersRequired,
			})
		}
		_, err := s.depts.Create(ctx, &dto.CreateDepartmentRequest{
			Name: d.Name, Is247: d.Is247, DefaultPortersRequired: d.DefaultPortersRequired, Schedules: schedules,
		}, "")
		switch {
		case errors.Is(err, service.ErrDepartmentNameExists):
			res.Skipped["departments"]++
		case err != nil:
			return res, fmt.Errorf("部门 %s: %w", d.Name, err)
		default:
			res.Created["departments"]++
		}
	}

	// ── 搬运工 ──
	if len(f.Porters) > 0 {
		deptIDs, err := s.departmentIDs(ctx)
		if err != nil {
			return res, err
		}
		existing, err := s.porterNames(ctx)
		if err != nil {
			return res, err
		}

		for _, p := range f.Porters {
			if existing[p.Name] {
				res.Skipped["porters"]++
				continue
			}
			req := &dto.CreatePorterRequest{
				Name: p.Name, ShiftType: p.ShiftType, ShiftOffsetDays: p.ShiftOffsetDays,
				IsFloorStaff: p.IsFloorStaff, PorterType: p.PorterType, GuaranteedHours: p.GuaranteedHours,
			}
			if p.Department != "" {
				id, ok := deptIDs[p.Department]
				if !ok {
					return res, fmt.Errorf("搬运工 %s: 部门 %q 不存在", p.Name, p.Department)
				}
				req.RegularDepartmentID = &id
			}
			if _, err := s.porters.Create(ctx, req, ""); err != nil {
				return res, fmt.Errorf("搬运工 %s: %w", p.Name, err)
			}
			existing[p.Name] = true
			res.Created["porters"]++
		}
	}

	// ── 账号 ──
	for _, u := range f.Users {
		_, err := s.auth.Register(ctx, &dto.RegisterRequest{Name: u.Name, Email: u.Email, Password: u.Password, Role: u.Role}, "")
		switch {
		case errors.Is(err, service.ErrEmailExists):
			res.Skipped["users"]++
		case err != nil:
			return res, fmt.Errorf("账号 %s: %w", u.Email, err)
		default:
			res.Created["users"]++
		}
	}

	s.logger.Info("种子数据导入完成", zap.Any("created", res.Created), zap.Any("skipped", res.Skipped))
	return res, nil
}

func (s *seeder) departmentIDs(ctx context.Context) (map[string]string, error) {
	depts, err := s.depts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询部门失败: %w", err)
	}
	ids := make(map[string]string, len(depts))
	for _, d := range depts {
		ids[d.Name] = d.ID
	}
	return ids, nil
}

// porterNames 已有搬运工（含停用）按姓名去重
func (s *seeder) porterNames(ctx context.Context) (map[string]bool, error) {
	names := make(map[string]bool)
	req := &dto.PorterListRequest{IncludeInactive: true}
	req.PageSize = 200
	for page := 1; ; page++ {
		req.Page = page
		list, total, err := s.porters.List(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("查询搬运工失败: %w", err)
		}
		for _, p := range list {
			names[p.Name] = true
		}
		if len(list) == 0 || int64(page*req.PageSize) >= total {
			return names, nil
		}
	}
}

// ── 命令 ──

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "导入班次模式、部门、搬运工与账号",
	Long: `从 YAML 文件导入基础数据，可重复执行：已存在的班次模式、部门、同名搬运工与账号会跳过。

示例:
  rotactl seed config/seed.example.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fh.Close()

		f, err := parseSeed(fh)
		if err != nil {
			return err
		}

		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()

		s := &seeder{
			patterns: a.svc.ShiftPattern,
			depts:    a.svc.Department,
			porters:  a.svc.Porter,
			auth:     a.svc.Auth,
			logger:   a.logger,
		}
		res, err := s.apply(cmd.Context(), f)
		if err != nil {
			return err
		}

		for _, kind := range []string{"shift_patterns", "departments", "porters", "users"} {
			fmt.Fprintf(cmd.OutOrStdout(), "%-15s 新建 %d，跳过 %d\n", kind, res.Created[kind], res.Skipped[kind])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
