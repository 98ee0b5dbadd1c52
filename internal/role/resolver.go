package role

import (
	"context"

	"github.com/hadmin/internal/menu"
	"github.com/hadmin/pkg/errors"
	"github.com/hadmin/pkg/logger"
	"go.uber.org/zap"
)

// Resolver 根据角色解析可访问的前端路由树
type Resolver struct {
	roles     Repository
	roleMenus MenuRepository
	menus     menu.Repository
}

// NewResolver 创建路由解析器
func NewResolver(roles Repository, roleMenus MenuRepository, menus menu.Repository) *Resolver {
	return &Resolver{
		roles:     roles,
		roleMenus: roleMenus,
		menus:     menus,
	}
}

// ResolveRoutes 解析角色的路由树。角色不存在返回NotFound；
// 无启用关联返回空列表；隐藏菜单与停用关联不参与组装。
func (r *Resolver) ResolveRoutes(ctx context.Context, roleID int64) ([]*menu.RouteItem, error) {
	role, err := r.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.NotFound("角色")
	}

	menuIDs, err := r.roleMenus.FindEnabledMenuIDs(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if len(menuIDs) == 0 {
		return []*menu.RouteItem{}, nil
	}

	menus, err := r.menus.FindByMenuIDs(ctx, menuIDs, false)
	if err != nil {
		return nil, err
	}

	tree, orphans := menu.BuildTree(menus)
	if orphans > 0 {
		logger.Warn("role route tree contains orphan nodes",
			zap.Int64("roleId", roleID), zap.Int("orphans", orphans))
	}
	return menu.ToRoutes(tree), nil
}
