package role

// CreateRequest 创建角色请求
type CreateRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Sort        int    `json:"sort"`
}

// UpdateRequest 更新角色请求，nil字段表示不修改
type UpdateRequest struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Sort        *int    `json:"sort"`
}

// SetMenusRequest 设置角色菜单请求
type SetMenusRequest struct {
	MenuIDs []int64 `json:"menuIds"`
}

// ListQuery 角色列表查询参数
type ListQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Name     string `query:"name"`
	Status   string `query:"status"`
}
