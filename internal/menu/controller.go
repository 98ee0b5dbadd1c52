package menu

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/dal"
	"github.com/hadmin/pkg/errors"
	"github.com/hadmin/pkg/logger"
	"github.com/hadmin/pkg/response"
	"go.uber.org/zap"
)

// Controller 菜单控制器
type Controller struct {
	repo Repository
}

// NewController 创建菜单控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	menus := r.Group("/menus", authMiddleware)
	menus.Post("", c.Create)
	menus.Get("", c.List)
	menus.Get("/tree", c.GetTree)
	menus.Get("/next-id", c.GetNextID)
	menus.Get("/:menuId", c.Get)
	menus.Put("/:menuId", c.Update)
	menus.Delete("/:menuId", c.Delete)
	menus.Put("/:menuId/visibility", c.ToggleVisibility)
}

// Create 创建菜单
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	m, err := c.create(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, m)
}

// create 创建菜单业务逻辑
func (c *Controller) create(ctx context.Context, req *CreateRequest) (*model.Menu, error) {
	if req.Name == "" || req.Path == "" {
		return nil, errors.Validation("菜单名称和路径不能为空")
	}

	if req.MenuID == 0 {
		next, err := c.repo.NextMenuID(ctx)
		if err != nil {
			return nil, err
		}
		req.MenuID = next
	} else if req.MenuID < model.MenuIDFloor {
		return nil, errors.Validation("菜单编号不能小于1000")
	}

	if err := c.checkUnique(ctx, req.MenuID, req.Name, req.Path, 0); err != nil {
		return nil, err
	}
	if err := c.checkParent(ctx, req.ParentID); err != nil {
		return nil, err
	}

	m := &model.Menu{
		MenuID:       req.MenuID,
		ParentID:     req.ParentID,
		Name:         req.Name,
		Title:        req.Title,
		Path:         req.Path,
		Component:    req.Component,
		Redirect:     req.Redirect,
		Icon:         req.Icon,
		AlwaysShow:   req.AlwaysShow,
		NoCache:      req.NoCache,
		Affix:        req.Affix,
		Hidden:       req.Hidden,
		NoTagsView:   req.NoTagsView,
		CanTo:        req.CanTo,
		ActiveMenu:   req.ActiveMenu,
		ExternalLink: req.ExternalLink,
		Permission:   req.Permission,
		MenuOrder:    req.MenuOrder,
	}
	if err := c.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// checkUnique 校验业务编号、名称与路径唯一，excludeID排除自身
func (c *Controller) checkUnique(ctx context.Context, menuID int64, name, path string, excludeID int64) error {
	check := func(field string, value interface{}, label string) error {
		db := c.repo.DB().WithContext(ctx).Model(&model.Menu{}).Where(field+" = ?", value)
		if excludeID > 0 {
			db = db.Where("id <> ?", excludeID)
		}
		var count int64
		if err := db.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.Duplicate(label)
		}
		return nil
	}

	if menuID > 0 {
		if err := check("menu_id", menuID, "菜单编号"); err != nil {
			return err
		}
	}
	if name != "" {
		if err := check("name", name, "菜单名称"); err != nil {
			return err
		}
	}
	if path != "" {
		if err := check("path", path, "菜单路径"); err != nil {
			return err
		}
	}
	return nil
}

// checkParent 校验父菜单存在
func (c *Controller) checkParent(ctx context.Context, parentID int64) error {
	if parentID == 0 {
		return nil
	}
	parent, err := c.repo.FindByMenuID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return errors.Validation("父菜单不存在")
	}
	return nil
}

// List 菜单列表
func (c *Controller) List(ctx *fiber.Ctx) error {
	var q ListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	conditions := map[string]interface{}{}
	if q.ParentID != nil {
		conditions["parent_id"] = *q.ParentID
	}
	if q.Hidden != nil {
		conditions["hidden"] = *q.Hidden
	}
	if q.Title != "" {
		conditions["title"] = q.Title
	}

	pagination := dal.NewPagination(q.Page, q.PageSize)
	result, err := c.repo.FindPaged(ctx.UserContext(), conditions, pagination,
		dal.WithOrder("menu_order ASC, menu_id ASC"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.SuccessPage(ctx, result.Items, result.Total, result.Page, result.PageSize)
}

// GetTree 菜单树，showHidden=true时包含隐藏菜单
func (c *Controller) GetTree(ctx *fiber.Ctx) error {
	showHidden := ctx.QueryBool("showHidden", false)

	menus, err := c.repo.FindAllOrdered(ctx.UserContext(), showHidden)
	if err != nil {
		return response.FromError(ctx, err)
	}

	tree, orphans := BuildTree(menus)
	if orphans > 0 {
		logger.Warn("menu tree contains orphan nodes", zap.Int("orphans", orphans))
	}
	return response.Success(ctx, tree)
}

// GetNextID 下一个可用菜单编号
func (c *Controller) GetNextID(ctx *fiber.Ctx) error {
	next, err := c.repo.NextMenuID(ctx.UserContext())
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, fiber.Map{"menuId": next})
}

// Get 获取菜单详情
func (c *Controller) Get(ctx *fiber.Ctx) error {
	menuID, _ := strconv.ParseInt(ctx.Params("menuId"), 10, 64)
	if menuID <= 0 {
		return response.BadRequest(ctx, "无效的菜单编号")
	}

	m, err := c.repo.FindByMenuID(ctx.UserContext(), menuID)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if m == nil {
		return response.NotFound(ctx, "菜单不存在")
	}
	return response.Success(ctx, m)
}

// Update 更新菜单
func (c *Controller) Update(ctx *fiber.Ctx) error {
	menuID, _ := strconv.ParseInt(ctx.Params("menuId"), 10, 64)
	if menuID <= 0 {
		return response.BadRequest(ctx, "无效的菜单编号")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	m, err := c.update(ctx.UserContext(), menuID, &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, m)
}

// update 更新菜单业务逻辑，仅修改请求中出现的字段
func (c *Controller) update(ctx context.Context, menuID int64, req *UpdateRequest) (*model.Menu, error) {
	m, err := c.repo.FindByMenuID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.NotFound("菜单")
	}

	var name, path string
	if req.Name != nil && *req.Name != m.Name {
		name = *req.Name
	}
	if req.Path != nil && *req.Path != m.Path {
		path = *req.Path
	}
	if name != "" || path != "" {
		if err := c.checkUnique(ctx, 0, name, path, m.ID); err != nil {
			return nil, err
		}
	}

	if req.ParentID != nil && *req.ParentID != m.ParentID {
		if *req.ParentID == m.MenuID {
			return nil, errors.Validation("父菜单不能是自身")
		}
		if err := c.checkParent(ctx, *req.ParentID); err != nil {
			return nil, err
		}
		m.ParentID = *req.ParentID
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Path != nil {
		m.Path = *req.Path
	}
	if req.Component != nil {
		m.Component = *req.Component
	}
	if req.Redirect != nil {
		m.Redirect = *req.Redirect
	}
	if req.Icon != nil {
		m.Icon = *req.Icon
	}
	if req.AlwaysShow != nil {
		m.AlwaysShow = *req.AlwaysShow
	}
	if req.NoCache != nil {
		m.NoCache = *req.NoCache
	}
	if req.Affix != nil {
		m.Affix = *req.Affix
	}
	if req.Hidden != nil {
		m.Hidden = *req.Hidden
	}
	if req.NoTagsView != nil {
		m.NoTagsView = *req.NoTagsView
	}
	if req.CanTo != nil {
		m.CanTo = *req.CanTo
	}
	if req.ActiveMenu != nil {
		m.ActiveMenu = *req.ActiveMenu
	}
	if req.ExternalLink != nil {
		m.ExternalLink = *req.ExternalLink
	}
	if req.Permission != nil {
		m.Permission = *req.Permission
	}
	if req.MenuOrder != nil {
		m.MenuOrder = *req.MenuOrder
	}

	if err := c.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete 删除菜单，存在子菜单时拒绝
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	menuID, _ := strconv.ParseInt(ctx.Params("menuId"), 10, 64)
	if menuID <= 0 {
		return response.BadRequest(ctx, "无效的菜单编号")
	}

	m, err := c.repo.FindByMenuID(ctx.UserContext(), menuID)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if m == nil {
		return response.NotFound(ctx, "菜单不存在")
	}

	hasChildren, err := c.repo.HasChildren(ctx.UserContext(), menuID)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if hasChildren {
		return response.BadRequest(ctx, "存在子菜单，无法删除")
	}

	if err := c.repo.Delete(ctx.UserContext(), m.ID); err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, nil)
}

// ToggleVisibility 切换菜单显示状态
func (c *Controller) ToggleVisibility(ctx *fiber.Ctx) error {
	menuID, _ := strconv.ParseInt(ctx.Params("menuId"), 10, 64)
	if menuID <= 0 {
		return response.BadRequest(ctx, "无效的菜单编号")
	}

	m, err := c.repo.FindByMenuID(ctx.UserContext(), menuID)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if m == nil {
		return response.NotFound(ctx, "菜单不存在")
	}

	if err := c.repo.UpdateFields(ctx.UserContext(), m.ID, map[string]interface{}{"hidden": !m.Hidden}); err != nil {
		return response.FromError(ctx, err)
	}
	m.Hidden = !m.Hidden
	return response.Success(ctx, m)
}
