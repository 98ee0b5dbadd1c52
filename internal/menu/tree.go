package menu

import (
	"sort"

	"github.com/hadmin/internal/model"
)

// BuildTree 按业务编号组装菜单森林。
// 同级按 (MenuOrder, MenuID) 升序；父节点不存在的菜单提升为根并计入孤儿数；
// 环上节点若无法从任何根到达则被整体丢弃，访问标记保证不会重复展开。
func BuildTree(menus []model.Menu) ([]*model.Menu, int) {
	if len(menus) == 0 {
		return []*model.Menu{}, 0
	}

	// 独立副本，避免污染调用方切片中的Children
	arena := make([]*model.Menu, len(menus))
	index := make(map[int64]*model.Menu, len(menus))
	for i := range menus {
		node := menus[i]
		node.Children = nil
		arena[i] = &node
		index[node.MenuID] = &node
	}

	children := make(map[int64][]*model.Menu, len(menus))
	var roots []*model.Menu
	orphans := 0

	for _, node := range arena {
		if node.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		if _, ok := index[node.ParentID]; !ok {
			orphans++
			roots = append(roots, node)
			continue
		}
		children[node.ParentID] = append(children[node.ParentID], node)
	}

	sortSiblings(roots)
	for _, siblings := range children {
		sortSiblings(siblings)
	}

	visited := make(map[int64]bool, len(menus))
	var attach func(node *model.Menu)
	attach = func(node *model.Menu) {
		visited[node.MenuID] = true
		for _, child := range children[node.MenuID] {
			if visited[child.MenuID] {
				continue
			}
			node.Children = append(node.Children, child)
			attach(child)
		}
	}
	for _, root := range roots {
		if visited[root.MenuID] {
			continue
		}
		attach(root)
	}

	if roots == nil {
		roots = []*model.Menu{}
	}
	return roots, orphans
}

// sortSiblings 同级排序
func sortSiblings(siblings []*model.Menu) {
	sort.Slice(siblings, func(i, j int) bool {
		if siblings[i].MenuOrder != siblings[j].MenuOrder {
			return siblings[i].MenuOrder < siblings[j].MenuOrder
		}
		return siblings[i].MenuID < siblings[j].MenuID
	})
}
