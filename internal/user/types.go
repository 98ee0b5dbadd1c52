package user

// CreateRequest 创建用户请求
type CreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Status   *int8  `json:"status"`
	RoleID   int64  `json:"roleId"`
	DeptID   int64  `json:"deptId"`
}

// UpdateRequest 更新用户请求，nil字段表示不修改
type UpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
	Status   *int8   `json:"status"`
	RoleID   *int64  `json:"roleId"`
	DeptID   *int64  `json:"deptId"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ListQuery 用户列表查询参数
type ListQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Email    string `query:"email"`
	Username string `query:"username"`
	Status   *int8  `query:"status"`
	DeptID   int64  `query:"deptId"`
	RoleID   int64  `query:"roleId"`
}
