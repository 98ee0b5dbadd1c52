package menu

import (
	"context"
	"database/sql"

	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/dal"
	"gorm.io/gorm"
)

// Repository 菜单仓储接口
type Repository interface {
	dal.Repository[model.Menu]
	FindByMenuID(ctx context.Context, menuID int64) (*model.Menu, error)
	FindByMenuIDs(ctx context.Context, menuIDs []int64, includeHidden bool) ([]model.Menu, error)
	FindAllOrdered(ctx context.Context, includeHidden bool) ([]model.Menu, error)
	HasChildren(ctx context.Context, menuID int64) (bool, error)
	NextMenuID(ctx context.Context) (int64, error)
}

// repository 菜单仓储实现
type repository struct {
	*dal.BaseRepository[model.Menu]
}

// NewRepository 创建菜单仓储
func NewRepository() Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Menu](),
	}
}

// NewRepositoryWithDB 使用指定DB创建仓储
func NewRepositoryWithDB(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepositoryWithDB[model.Menu](db),
	}
}

// FindByMenuID 根据业务编号查找菜单
func (r *repository) FindByMenuID(ctx context.Context, menuID int64) (*model.Menu, error) {
	return r.FindOne(ctx, map[string]interface{}{"menu_id": menuID})
}

// FindByMenuIDs 根据业务编号批量查找菜单
func (r *repository) FindByMenuIDs(ctx context.Context, menuIDs []int64, includeHidden bool) ([]model.Menu, error) {
	if len(menuIDs) == 0 {
		return []model.Menu{}, nil
	}

	var menus []model.Menu
	db := r.DB().WithContext(ctx).Where("menu_id IN ?", menuIDs)
	if !includeHidden {
		db = db.Where("hidden = ?", false)
	}
	if err := db.Order("menu_order ASC, menu_id ASC").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

// FindAllOrdered 查找全部菜单
func (r *repository) FindAllOrdered(ctx context.Context, includeHidden bool) ([]model.Menu, error) {
	conditions := map[string]interface{}{}
	if !includeHidden {
		conditions["hidden"] = false
	}
	return r.FindAll(ctx, conditions, dal.WithOrder("menu_order ASC, menu_id ASC"))
}

// HasChildren 是否存在以该菜单为父的菜单
func (r *repository) HasChildren(ctx context.Context, menuID int64) (bool, error) {
	return r.Exists(ctx, map[string]interface{}{"parent_id": menuID})
}

// NextMenuID 计算下一个可用的业务编号，空表从1000起
func (r *repository) NextMenuID(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	if err := r.DB().WithContext(ctx).Model(&model.Menu{}).
		Select("MAX(menu_id)").Scan(&max).Error; err != nil {
		return 0, err
	}
	if !max.Valid || max.Int64 < model.MenuIDFloor {
		return model.MenuIDFloor, nil
	}
	return max.Int64 + 1, nil
}
