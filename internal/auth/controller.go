package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hadmin/internal/model"
	"github.com/hadmin/internal/token"
	"github.com/hadmin/internal/user"
	pkgAuth "github.com/hadmin/pkg/auth"
	"github.com/hadmin/pkg/dal"
	"github.com/hadmin/pkg/errors"
	"github.com/hadmin/pkg/logger"
	"github.com/hadmin/pkg/middleware"
	"github.com/hadmin/pkg/response"
	"go.uber.org/zap"
)

// Controller 认证控制器
type Controller struct {
	users    user.Repository
	sessions *token.SessionManager
	jwt      *pkgAuth.JWTManager
}

// NewController 创建认证控制器
func NewController(users user.Repository, sessions *token.SessionManager, jwtManager *pkgAuth.JWTManager) *Controller {
	return &Controller{
		users:    users,
		sessions: sessions,
		jwt:      jwtManager,
	}
}

// RegisterRoutes 注册路由
func (c *Controller) RegisterRoutes(r fiber.Router) {
	g := r.Group("/auth")
	g.Post("/login", c.Login)
	g.Post("/logout", c.RequireAuth(), c.Logout)
	g.Get("/me", c.RequireAuth(), c.Me)
}

// Login 登录
func (c *Controller) Login(ctx *fiber.Ctx) error {
	var req LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return response.ValidateError(ctx, "邮箱和密码不能为空")
	}

	resp, err := c.login(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, resp)
}

// login 登录业务逻辑。凭据校验失败统一返回同一错误，
// 新令牌签发前吊销该用户的全部既有会话，吊销失败则登录失败。
func (c *Controller) login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	u, err := c.users.FindByEmail(ctx, req.Email, dal.WithPreload("Role"), dal.WithPreload("Dept"))
	if err != nil {
		return nil, err
	}
	if u == nil {
		logger.Info("login rejected: unknown email", zap.String("email", req.Email))
		return nil, errors.ErrInvalidCredential
	}
	if !pkgAuth.CheckPassword(req.Password, u.Password) {
		logger.Info("login rejected: wrong password", zap.Int64("userId", u.ID))
		return nil, errors.ErrInvalidCredential
	}
	if !u.IsEnabled() {
		logger.Info("login rejected: account disabled", zap.Int64("userId", u.ID))
		return nil, errors.ErrAccountDisabled
	}

	if err := c.sessions.RevokeAll(ctx, u.ID); err != nil {
		logger.Error("login aborted: revoke existing sessions failed", zap.Int64("userId", u.ID), zap.Error(err))
		return nil, err
	}

	info, err := c.buildUserInfo(u)
	if err != nil {
		return nil, err
	}

	signed, err := c.sessions.Issue(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    c.jwt.NewTokenInfo(signed),
		UserInfo: info,
	}, nil
}

// buildUserInfo 组装用户信息投影，关联缺失视为数据不一致
func (c *Controller) buildUserInfo(u *model.User) (*UserInfo, error) {
	if u.Role == nil || u.Dept == nil {
		logger.Error("user record missing role or dept", zap.Int64("userId", u.ID),
			zap.Int64("roleId", u.RoleID), zap.Int64("deptId", u.DeptID))
		return nil, errors.Business("用户数据不一致")
	}
	return &UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		RoleID:   u.RoleID,
		RoleName: u.Role.Name,
		DeptID:   u.DeptID,
		DeptName: u.Dept.Name,
	}, nil
}

// Logout 登出，幂等
func (c *Controller) Logout(ctx *fiber.Ctx) error {
	if err := c.sessions.Revoke(ctx.UserContext(), middleware.GetToken(ctx)); err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, nil)
}

// Me 获取当前登录用户信息
func (c *Controller) Me(ctx *fiber.Ctx) error {
	u, err := c.users.FindByID(ctx.UserContext(), middleware.GetUserID(ctx),
		dal.WithPreload("Role"), dal.WithPreload("Dept"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	if u == nil {
		return response.FromError(ctx, errors.ErrTokenInvalid)
	}

	info, err := c.buildUserInfo(u)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, info)
}

// RequireAuth 认证中间件：本地校验签名，再与会话存储比对，最后复查账号状态
func (c *Controller) RequireAuth() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		raw := extractToken(ctx)
		if raw == "" {
			return response.Unauthorized(ctx, "未提供认证令牌")
		}

		claims, err := c.sessions.Validate(ctx.UserContext(), raw)
		if err != nil {
			return response.FromError(ctx, err)
		}

		userID, err := claims.UserID()
		if err != nil {
			return response.FromError(ctx, errors.ErrTokenInvalid)
		}

		u, err := c.users.FindByID(ctx.UserContext(), userID)
		if err != nil {
			return response.FromError(ctx, err)
		}
		if u == nil {
			return response.FromError(ctx, errors.ErrTokenInvalid)
		}
		if !u.IsEnabled() {
			return response.FromError(ctx, errors.ErrAccountDisabled)
		}

		ctx.Locals("userId", u.ID)
		ctx.Locals("token", raw)
		return ctx.Next()
	}
}

// extractToken 从请求中提取令牌
func extractToken(ctx *fiber.Ctx) string {
	header := ctx.Get("Authorization")
	if header == "" {
		return ctx.Query("token")
	}
	return strings.TrimPrefix(header, "Bearer ")
}
