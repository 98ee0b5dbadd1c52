package menu

import (
	"encoding/json"
	"strings"

	"github.com/hadmin/internal/model"
)

// RouteMeta 前端路由元信息
type RouteMeta struct {
	Title      string   `json:"title"`
	Icon       string   `json:"icon,omitempty"`
	AlwaysShow bool     `json:"alwaysShow"`
	NoCache    bool     `json:"noCache"`
	Affix      bool     `json:"affix"`
	Hidden     bool     `json:"hidden"`
	NoTagsView bool     `json:"noTagsView"`
	CanTo      bool     `json:"canTo"`
	Permission []string `json:"permission"`
	ActiveMenu string   `json:"activeMenu,omitempty"`
}

// RouteItem 前端路由节点
type RouteItem struct {
	Path      string       `json:"path"`
	Component string       `json:"component,omitempty"`
	Redirect  string       `json:"redirect,omitempty"`
	Name      string       `json:"name"`
	Meta      RouteMeta    `json:"meta"`
	Children  []*RouteItem `json:"children,omitempty"`
}

// ToRoutes 将菜单森林映射为前端路由
func ToRoutes(menus []*model.Menu) []*RouteItem {
	routes := make([]*RouteItem, 0, len(menus))
	for _, m := range menus {
		routes = append(routes, toRoute(m))
	}
	return routes
}

// toRoute 单节点映射，children为空时整个字段省略
func toRoute(m *model.Menu) *RouteItem {
	item := &RouteItem{
		Path:      m.Path,
		Component: m.Component,
		Redirect:  m.Redirect,
		Name:      m.Name,
		Meta: RouteMeta{
			Title:      m.Title,
			Icon:       m.Icon,
			AlwaysShow: m.AlwaysShow,
			NoCache:    m.NoCache,
			Affix:      m.Affix,
			Hidden:     m.Hidden,
			NoTagsView: m.NoTagsView,
			CanTo:      m.CanTo,
			Permission: parsePermission(m.Permission),
			ActiveMenu: m.ActiveMenu,
		},
	}
	for _, child := range m.Children {
		item.Children = append(item.Children, toRoute(child))
	}
	return item
}

// parsePermission 解析权限标识列表。优先按JSON数组解析，
// 失败后按逗号分隔处理，脏数据不阻断路由下发。
func parsePermission(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	if strings.HasPrefix(raw, "[") {
		var perms []string
		if err := json.Unmarshal([]byte(raw), &perms); err == nil {
			return perms
		}
		return []string{}
	}

	parts := strings.Split(raw, ",")
	perms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}
	return perms
}
