package dept

import (
	"context"

	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/dal"
	"gorm.io/gorm"
)

// Repository 部门仓储接口
type Repository interface {
	dal.Repository[model.Dept]
	FindAllOrdered(ctx context.Context) ([]model.Dept, error)
	HasChildren(ctx context.Context, deptID int64) (bool, error)
}

// repository 部门仓储实现
type repository struct {
	*dal.BaseRepository[model.Dept]
}

// NewRepository 创建部门仓储
func NewRepository() Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Dept](),
	}
}

// NewRepositoryWithDB 使用指定DB创建仓储
func NewRepositoryWithDB(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepositoryWithDB[model.Dept](db),
	}
}

// FindAllOrdered 查找全部部门
func (r *repository) FindAllOrdered(ctx context.Context) ([]model.Dept, error) {
	return r.FindAll(ctx, nil, dal.WithOrder("sort ASC, id ASC"))
}

// HasChildren 是否存在子部门
func (r *repository) HasChildren(ctx context.Context, deptID int64) (bool, error) {
	return r.Exists(ctx, map[string]interface{}{"parent_id": deptID})
}
