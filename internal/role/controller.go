package role

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hadmin/internal/menu"
	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/dal"
	"github.com/hadmin/pkg/errors"
	"github.com/hadmin/pkg/response"
)

// Controller 角色控制器
type Controller struct {
	repo      Repository
	roleMenus MenuRepository
	menus     menu.Repository
	resolver  *Resolver
	userCount func(ctx context.Context, roleID int64) (int64, error)
}

// NewController 创建角色控制器，userCount用于删除前校验引用
func NewController(repo Repository, roleMenus MenuRepository, menus menu.Repository,
	userCount func(ctx context.Context, roleID int64) (int64, error)) *Controller {
	return &Controller{
		repo:      repo,
		roleMenus: roleMenus,
		menus:     menus,
		resolver:  NewResolver(repo, roleMenus, menus),
		userCount: userCount,
	}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	roles := r.Group("/roles", authMiddleware)
	roles.Post("", c.Create)
	roles.Get("", c.List)
	roles.Get("/:id", c.Get)
	roles.Put("/:id", c.Update)
	roles.Delete("/:id", c.Delete)
	roles.Put("/:id/status", c.SetStatus)
	roles.Get("/:id/menus", c.GetMenus)
	roles.Put("/:id/menus", c.SetMenus)
}

// Create 创建角色
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	role, err := c.create(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, role)
}

// create 创建角色业务逻辑
func (c *Controller) create(ctx context.Context, req *CreateRequest) (*model.Role, error) {
	if req.Name == "" || req.Code == "" {
		return nil, errors.Validation("角色名称和编码不能为空")
	}
	if req.Status != "" && !validStatus(req.Status) {
		return nil, errors.Validation("无效的状态值")
	}

	existing, err := c.repo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Duplicate("角色名称")
	}
	existing, err = c.repo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Duplicate("角色编码")
	}

	role := &model.Role{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      model.RoleStatusEnabled,
		Sort:        req.Sort,
	}
	if req.Status != "" {
		role.Status = req.Status
	}

	if err := c.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// List 角色列表
func (c *Controller) List(ctx *fiber.Ctx) error {
	var q ListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	conditions := map[string]interface{}{}
	if q.Name != "" {
		conditions["name"] = q.Name
	}
	if q.Status != "" {
		conditions["status"] = q.Status
	}

	pagination := dal.NewPagination(q.Page, q.PageSize)
	result, err := c.repo.FindPaged(ctx.UserContext(), conditions, pagination,
		dal.WithOrder("sort ASC, id ASC"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.SuccessPage(ctx, result.Items, result.Total, result.Page, result.PageSize)
}

// Get 获取角色详情
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的角色ID")
	}

	role, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if role == nil {
		return response.NotFound(ctx, "角色不存在")
	}
	return response.Success(ctx, role)
}

// Update 更新角色
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的角色ID")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	role, err := c.update(ctx.UserContext(), id, &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, role)
}

// update 更新角色业务逻辑
func (c *Controller) update(ctx context.Context, id int64, req *UpdateRequest) (*model.Role, error) {
	role, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.NotFound("角色")
	}

	if req.Name != nil && *req.Name != role.Name {
		existing, err := c.repo.FindByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, errors.Duplicate("角色名称")
		}
		role.Name = *req.Name
	}
	if req.Code != nil && *req.Code != role.Code {
		existing, err := c.repo.FindByCode(ctx, *req.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, errors.Duplicate("角色编码")
		}
		role.Code = *req.Code
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return nil, errors.Validation("无效的状态值")
		}
		role.Status = *req.Status
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Sort != nil {
		role.Sort = *req.Sort
	}

	if err := c.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete 删除角色，仍被用户引用时拒绝
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的角色ID")
	}

	role, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if role == nil {
		return response.NotFound(ctx, "角色不存在")
	}

	if c.userCount != nil {
		count, err := c.userCount(ctx.UserContext(), id)
		if err != nil {
			return response.FromError(ctx, err)
		}
		if count > 0 {
			return response.BadRequest(ctx, "角色下存在用户，无法删除")
		}
	}

	if err := c.roleMenus.DeleteByRoleID(ctx.UserContext(), id); err != nil {
		return response.FromError(ctx, err)
	}
	if err := c.repo.Delete(ctx.UserContext(), id); err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, nil)
}

// SetStatus 修改角色状态
func (c *Controller) SetStatus(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的角色ID")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	if !validStatus(req.Status) {
		return response.ValidateError(ctx, "无效的状态值")
	}

	role, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if role == nil {
		return response.NotFound(ctx, "角色不存在")
	}

	if err := c.repo.UpdateFields(ctx.UserContext(), id, map[string]interface{}{"status": req.Status}); err != nil {
		return response.FromError(ctx, err)
	}
	role.Status = req.Status
	return response.Success(ctx, role)
}

// GetMenus 获取角色的路由树
func (c *Controller) GetMenus(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的角色ID")
	}

	routes, err := c.resolver.ResolveRoutes(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, routes)
}

// SetMenus 整体替换角色的菜单关联
func (c *Controller) SetMenus(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的角色ID")
	}

	var req SetMenusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	role, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if role == nil {
		return response.NotFound(ctx, "角色不存在")
	}

	// 引用的菜单必须全部存在
	if len(req.MenuIDs) > 0 {
		menus, err := c.menus.FindByMenuIDs(ctx.UserContext(), req.MenuIDs, true)
		if err != nil {
			return response.FromError(ctx, err)
		}
		if len(menus) != len(uniqueInt64(req.MenuIDs)) {
			return response.ValidateError(ctx, "存在无效的菜单编号")
		}
	}

	if err := c.roleMenus.Replace(ctx.UserContext(), id, uniqueInt64(req.MenuIDs)); err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, nil)
}

// validStatus 状态取值校验
func validStatus(status string) bool {
	return status == model.RoleStatusEnabled || status == model.RoleStatusDisabled
}

// uniqueInt64 去重并保持出现顺序
func uniqueInt64(values []int64) []int64 {
	seen := make(map[int64]bool, len(values))
	out := make([]int64, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
