package dept

import (
	"context"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/errors"
	"github.com/hadmin/pkg/response"
)

// CreateRequest 创建部门请求
type CreateRequest struct {
	ParentID int64  `json:"parentId"`
	Name     string `json:"name"`
	Sort     int    `json:"sort"`
	Leader   string `json:"leader"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Status   *int8  `json:"status"`
}

// UpdateRequest 更新部门请求，nil字段表示不修改
type UpdateRequest struct {
	ParentID *int64  `json:"parentId"`
	Name     *string `json:"name"`
	Sort     *int    `json:"sort"`
	Leader   *string `json:"leader"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Status   *int8   `json:"status"`
}

// Controller 部门控制器
type Controller struct {
	repo      Repository
	userCount func(ctx context.Context, deptID int64) (int64, error)
}

// NewController 创建部门控制器，userCount用于删除前校验引用
func NewController(repo Repository, userCount func(ctx context.Context, deptID int64) (int64, error)) *Controller {
	return &Controller{repo: repo, userCount: userCount}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	depts := r.Group("/depts", authMiddleware)
	depts.Post("", c.Create)
	depts.Get("", c.List)
	depts.Get("/tree", c.GetTree)
	depts.Get("/:id", c.Get)
	depts.Put("/:id", c.Update)
	depts.Delete("/:id", c.Delete)
}

// Create 创建部门
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	d, err := c.create(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, d)
}

// create 创建部门业务逻辑
func (c *Controller) create(ctx context.Context, req *CreateRequest) (*model.Dept, error) {
	if req.Name == "" {
		return nil, errors.Validation("部门名称不能为空")
	}
	if req.ParentID > 0 {
		parent, err := c.repo.FindByID(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, errors.Validation("父部门不存在")
		}
	}

	d := &model.Dept{
		ParentID: req.ParentID,
		Name:     req.Name,
		Sort:     req.Sort,
		Leader:   req.Leader,
		Phone:    req.Phone,
		Email:    req.Email,
		Status:   1,
	}
	if req.Status != nil {
		d.Status = *req.Status
	}

	if err := c.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// List 部门列表
func (c *Controller) List(ctx *fiber.Ctx) error {
	depts, err := c.repo.FindAllOrdered(ctx.UserContext())
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, depts)
}

// GetTree 部门树
func (c *Controller) GetTree(ctx *fiber.Ctx) error {
	depts, err := c.repo.FindAllOrdered(ctx.UserContext())
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, buildTree(depts))
}

// Get 获取部门详情
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的部门ID")
	}

	d, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if d == nil {
		return response.NotFound(ctx, "部门不存在")
	}
	return response.Success(ctx, d)
}

// Update 更新部门
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的部门ID")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	d, err := c.update(ctx.UserContext(), id, &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, d)
}

// update 更新部门业务逻辑
func (c *Controller) update(ctx context.Context, id int64, req *UpdateRequest) (*model.Dept, error) {
	d, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errors.NotFound("部门")
	}

	if req.ParentID != nil && *req.ParentID != d.ParentID {
		if *req.ParentID == d.ID {
			return nil, errors.Validation("父部门不能是自身")
		}
		if *req.ParentID > 0 {
			parent, err := c.repo.FindByID(ctx, *req.ParentID)
			if err != nil {
				return nil, err
			}
			if parent == nil {
				return nil, errors.Validation("父部门不存在")
			}
		}
		d.ParentID = *req.ParentID
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Sort != nil {
		d.Sort = *req.Sort
	}
	if req.Leader != nil {
		d.Leader = *req.Leader
	}
	if req.Phone != nil {
		d.Phone = *req.Phone
	}
	if req.Email != nil {
		d.Email = *req.Email
	}
	if req.Status != nil {
		d.Status = *req.Status
	}

	if err := c.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete 删除部门，存在子部门或仍被用户引用时拒绝
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的部门ID")
	}

	d, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if d == nil {
		return response.NotFound(ctx, "部门不存在")
	}

	hasChildren, err := c.repo.HasChildren(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if hasChildren {
		return response.BadRequest(ctx, "存在子部门，无法删除")
	}

	if c.userCount != nil {
		count, err := c.userCount(ctx.UserContext(), id)
		if err != nil {
			return response.FromError(ctx, err)
		}
		if count > 0 {
			return response.BadRequest(ctx, "部门下存在用户，无法删除")
		}
	}

	if err := c.repo.Delete(ctx.UserContext(), id); err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, nil)
}

// buildTree 按行ID组装部门树，父节点缺失的部门提升为根
func buildTree(depts []model.Dept) []*model.Dept {
	index := make(map[int64]*model.Dept, len(depts))
	arena := make([]*model.Dept, len(depts))
	for i := range depts {
		node := depts[i]
		node.Children = nil
		arena[i] = &node
		index[node.ID] = &node
	}

	var roots []*model.Dept
	for _, node := range arena {
		if node.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[node.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	var sortChildren func(nodes []*model.Dept)
	sortChildren = func(nodes []*model.Dept) {
		sort.Slice(nodes, func(i, j int) bool {
			if nodes[i].Sort != nodes[j].Sort {
				return nodes[i].Sort < nodes[j].Sort
			}
			return nodes[i].ID < nodes[j].ID
		})
		for _, n := range nodes {
			sortChildren(n.Children)
		}
	}
	sortChildren(roots)

	if roots == nil {
		roots = []*model.Dept{}
	}
	return roots
}
