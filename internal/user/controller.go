package user

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hadmin/internal/model"
	"github.com/hadmin/pkg/auth"
	"github.com/hadmin/pkg/dal"
	"github.com/hadmin/pkg/errors"
	"github.com/hadmin/pkg/middleware"
	"github.com/hadmin/pkg/response"
)

// Controller 用户控制器
type Controller struct {
	repo Repository
}

// NewController 创建用户控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	users := r.Group("/users", authMiddleware)
	users.Post("", c.Create)
	users.Get("", c.List)
	users.Get("/profile", c.GetProfile)
	users.Put("/profile", c.UpdateProfile)
	users.Put("/profile/password", c.ChangePassword)
	users.Get("/:id", c.Get)
	users.Put("/:id", c.Update)
	users.Delete("/:id", c.Delete)
	users.Put("/:id/password", c.ResetPassword)
}

// Create 创建用户
func (c *Controller) Create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	u, err := c.create(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, u)
}

// create 创建用户业务逻辑
func (c *Controller) create(ctx context.Context, req *CreateRequest) (*model.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, errors.Validation("用户名、邮箱和密码不能为空")
	}

	existing, err := c.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Duplicate("邮箱")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Internal("密码加密失败")
	}

	u := &model.User{
		Username: req.Username,
		Password: hash,
		Email:    req.Email,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
		Status:   1,
		RoleID:   req.RoleID,
		DeptID:   req.DeptID,
	}
	if req.Status != nil {
		u.Status = *req.Status
	}

	if err := c.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// List 用户列表
func (c *Controller) List(ctx *fiber.Ctx) error {
	var q ListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	conditions := map[string]interface{}{}
	if q.Email != "" {
		conditions["email"] = q.Email
	}
	if q.Username != "" {
		conditions["username"] = q.Username
	}
	if q.Status != nil {
		conditions["status"] = *q.Status
	}
	if q.DeptID > 0 {
		conditions["dept_id"] = q.DeptID
	}
	if q.RoleID > 0 {
		conditions["role_id"] = q.RoleID
	}

	pagination := dal.NewPagination(q.Page, q.PageSize)
	result, err := c.repo.FindPaged(ctx.UserContext(), conditions, pagination,
		dal.WithPreload("Role"), dal.WithPreload("Dept"), dal.WithOrder("id ASC"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.SuccessPage(ctx, result.Items, result.Total, result.Page, result.PageSize)
}

// Get 获取用户详情
func (c *Controller) Get(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的用户ID")
	}

	u, err := c.repo.FindByID(ctx.UserContext(), id, dal.WithPreload("Role"), dal.WithPreload("Dept"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	if u == nil {
		return response.NotFound(ctx, "用户不存在")
	}
	return response.Success(ctx, u)
}

// Update 更新用户
func (c *Controller) Update(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的用户ID")
	}

	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	u, err := c.update(ctx.UserContext(), id, &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, u)
}

// update 更新用户业务逻辑，仅修改请求中出现的字段
func (c *Controller) update(ctx context.Context, id int64, req *UpdateRequest) (*model.User, error) {
	u, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.NotFound("用户")
	}

	if req.Email != nil && *req.Email != u.Email {
		existing, err := c.repo.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, errors.Duplicate("邮箱")
		}
		u.Email = *req.Email
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	if req.RoleID != nil {
		u.RoleID = *req.RoleID
	}
	if req.DeptID != nil {
		u.DeptID = *req.DeptID
	}

	if err := c.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete 删除用户
func (c *Controller) Delete(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的用户ID")
	}

	if id == middleware.GetUserID(ctx) {
		return response.BadRequest(ctx, "不能删除当前登录用户")
	}

	u, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if u == nil {
		return response.NotFound(ctx, "用户不存在")
	}

	if err := c.repo.Delete(ctx.UserContext(), id); err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, nil)
}

// GetProfile 获取当前用户资料
func (c *Controller) GetProfile(ctx *fiber.Ctx) error {
	u, err := c.repo.FindByID(ctx.UserContext(), middleware.GetUserID(ctx),
		dal.WithPreload("Role"), dal.WithPreload("Dept"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	if u == nil {
		return response.NotFound(ctx, "用户不存在")
	}
	return response.Success(ctx, u)
}

// UpdateProfile 更新当前用户资料
func (c *Controller) UpdateProfile(ctx *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	u, err := c.update(ctx.UserContext(), middleware.GetUserID(ctx), &UpdateRequest{
		Username: req.Username,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, u)
}

// ChangePassword 修改当前用户密码
func (c *Controller) ChangePassword(ctx *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	if req.NewPassword == "" {
		return response.ValidateError(ctx, "新密码不能为空")
	}

	u, err := c.repo.FindByID(ctx.UserContext(), middleware.GetUserID(ctx))
	if err != nil {
		return response.FromError(ctx, err)
	}
	if u == nil {
		return response.NotFound(ctx, "用户不存在")
	}

	if !auth.CheckPassword(req.OldPassword, u.Password) {
		return response.BadRequest(ctx, "原密码错误")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return response.ServerError(ctx, "密码加密失败")
	}
	if err := c.repo.UpdateFields(ctx.UserContext(), u.ID, map[string]interface{}{"password": hash}); err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, nil)
}

// ResetPassword 管理员重置用户密码
func (c *Controller) ResetPassword(ctx *fiber.Ctx) error {
	id, _ := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if id <= 0 {
		return response.BadRequest(ctx, "无效的用户ID")
	}

	var req ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	if req.Password == "" {
		return response.ValidateError(ctx, "密码不能为空")
	}

	u, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if u == nil {
		return response.NotFound(ctx, "用户不存在")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.ServerError(ctx, "密码加密失败")
	}
	if err := c.repo.UpdateFields(ctx.UserContext(), id, map[string]interface{}{"password": hash}); err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, nil)
}
