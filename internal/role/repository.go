package role

import (
	"context"

	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/dal"
	"gorm.io/gorm"
)

// Repository 角色仓储接口
type Repository interface {
	dal.Repository[model.Role]
	FindByName(ctx context.Context, name string) (*model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
}

// repository 角色仓储实现
type repository struct {
	*dal.BaseRepository[model.Role]
}

// NewRepository 创建角色仓储
func NewRepository() Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Role](),
	}
}

// NewRepositoryWithDB 使用指定DB创建角色仓储
func NewRepositoryWithDB(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepositoryWithDB[model.Role](db),
	}
}

// FindByName 根据名称查找角色
func (r *repository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	return r.FindOne(ctx, map[string]interface{}{"name": name})
}

// FindByCode 根据编码查找角色
func (r *repository) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	return r.FindOne(ctx, map[string]interface{}{"code": code})
}

// MenuRepository 角色菜单关联仓储接口
type MenuRepository interface {
	dal.Repository[model.RoleMenu]
	FindEnabledMenuIDs(ctx context.Context, roleID int64) ([]int64, error)
	Replace(ctx context.Context, roleID int64, menuIDs []int64) error
	DeleteByRoleID(ctx context.Context, roleID int64) error
}

// menuRepository 角色菜单关联仓储实现
type menuRepository struct {
	*dal.BaseRepository[model.RoleMenu]
}

// NewMenuRepository 创建角色菜单关联仓储
func NewMenuRepository() MenuRepository {
	return &menuRepository{
		BaseRepository: dal.NewBaseRepository[model.RoleMenu](),
	}
}

// NewMenuRepositoryWithDB 使用指定DB创建角色菜单关联仓储
func NewMenuRepositoryWithDB(db *gorm.DB) MenuRepository {
	return &menuRepository{
		BaseRepository: dal.NewBaseRepositoryWithDB[model.RoleMenu](db),
	}
}

// FindEnabledMenuIDs 查找角色启用的菜单业务编号
func (r *menuRepository) FindEnabledMenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	rows, err := r.FindAll(ctx, map[string]interface{}{
		"role_id":    roleID,
		"is_enabled": true,
	}, dal.WithOrder("menu_id ASC"))
	if err != nil {
		return nil, err
	}

	menuIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		menuIDs = append(menuIDs, row.MenuID)
	}
	return menuIDs, nil
}

// Replace 整体替换角色的菜单关联：先删后批量插入
func (r *menuRepository) Replace(ctx context.Context, roleID int64, menuIDs []int64) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&model.RoleMenu{}).Error; err != nil {
			return err
		}
		if len(menuIDs) == 0 {
			return nil
		}

		rows := make([]model.RoleMenu, 0, len(menuIDs))
		for _, menuID := range menuIDs {
			rows = append(rows, model.RoleMenu{
				RoleID:    roleID,
				MenuID:    menuID,
				IsEnabled: true,
			})
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}

// DeleteByRoleID 删除角色的全部菜单关联
func (r *menuRepository) DeleteByRoleID(ctx context.Context, roleID int64) error {
	return r.DB().WithContext(ctx).Where("role_id = ?", roleID).Delete(&model.RoleMenu{}).Error
}
