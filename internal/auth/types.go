package auth

import (
	pkgAuth "github.com/hadmin/pkg/auth"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    *pkgAuth.TokenInfo `json:"token"`
	UserInfo *UserInfo          `json:"userInfo"`
}

// UserInfo 登录用户信息
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	RoleID   int64  `json:"roleId"`
	RoleName string `json:"roleName"`
	DeptID   int64  `json:"deptId"`
	DeptName string `json:"deptName"`
}
