package menu

// CreateRequest 创建菜单请求，MenuID为0时自动分配
type CreateRequest struct {
	MenuID       int64  `json:"menuId"`
	ParentID     int64  `json:"parentId"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Path         string `json:"path"`
	Component    string `json:"component"`
	Redirect     string `json:"redirect"`
	Icon         string `json:"icon"`
	AlwaysShow   bool   `json:"alwaysShow"`
	NoCache      bool   `json:"noCache"`
	Affix        bool   `json:"affix"`
	Hidden       bool   `json:"hidden"`
	NoTagsView   bool   `json:"noTagsView"`
	CanTo        bool   `json:"canTo"`
	ActiveMenu   string `json:"activeMenu"`
	ExternalLink string `json:"externalLink"`
	Permission   string `json:"permission"`
	MenuOrder    int    `json:"menuOrder"`
}

// UpdateRequest 更新菜单请求，nil字段表示不修改
type UpdateRequest struct {
	ParentID     *int64  `json:"parentId"`
	Name         *string `json:"name"`
	Title        *string `json:"title"`
	Path         *string `json:"path"`
	Component    *string `json:"component"`
	Redirect     *string `json:"redirect"`
	Icon         *string `json:"icon"`
	AlwaysShow   *bool   `json:"alwaysShow"`
	NoCache      *bool   `json:"noCache"`
	Affix        *bool   `json:"affix"`
	Hidden       *bool   `json:"hidden"`
	NoTagsView   *bool   `json:"noTagsView"`
	CanTo        *bool   `json:"canTo"`
	ActiveMenu   *string `json:"activeMenu"`
	ExternalLink *string `json:"externalLink"`
	Permission   *string `json:"permission"`
	MenuOrder    *int    `json:"menuOrder"`
}

// ListQuery 菜单列表查询参数
type ListQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	ParentID *int64 `query:"parentId"`
	Hidden   *bool  `query:"hidden"`
	Title    string `query:"title"`
}
