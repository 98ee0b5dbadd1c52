package user

import (
	"context"

	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/dal"
	"gorm.io/gorm"
)

// Repository 用户仓储接口
type Repository interface {
	dal.Repository[model.User]
	FindByEmail(ctx context.Context, email string, opts ...dal.QueryOption) (*model.User, error)
	CountByDept(ctx context.Context, deptID int64) (int64, error)
	CountByRole(ctx context.Context, roleID int64) (int64, error)
}

// repository 用户仓储实现
type repository struct {
	*dal.BaseRepository[model.User]
}

// NewRepository 创建用户仓储
func NewRepository() Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.User](),
	}
}

// NewRepositoryWithDB 使用指定DB创建仓储
func NewRepositoryWithDB(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepositoryWithDB[model.User](db),
	}
}

// FindByEmail 根据邮箱查找用户
func (r *repository) FindByEmail(ctx context.Context, email string, opts ...dal.QueryOption) (*model.User, error) {
	return r.FindOne(ctx, map[string]interface{}{"email": email}, opts...)
}

// CountByDept 统计部门下的用户数
func (r *repository) CountByDept(ctx context.Context, deptID int64) (int64, error) {
	return r.Count(ctx, map[string]interface{}{"dept_id": deptID})
}

// CountByRole 统计角色下的用户数
func (r *repository) CountByRole(ctx context.Context, roleID int64) (int64, error) {
	return r.Count(ctx, map[string]interface{}{"role_id": roleID})
}
