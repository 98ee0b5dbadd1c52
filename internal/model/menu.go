package model

import (
	"github.com/hadmin/pkg/dal"
)

// MenuIDFloor 菜单业务编号起始值
const MenuIDFloor = 1000

// Menu 菜单模型，MenuID是对外的业务编号，ParentID引用父菜单的MenuID，0表示根节点
type Menu struct {
	dal.Model
	MenuID       int64   `gorm:"uniqueIndex;not null" json:"menuId"`
	ParentID     int64   `gorm:"default:0;index" json:"parentId"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Title        string  `gorm:"size:100" json:"title"`
	Path         string  `gorm:"size:255" json:"path"`
	Component    string  `gorm:"size:255" json:"component"`
	Redirect     string  `gorm:"size:255" json:"redirect"`
	Icon         string  `gorm:"size:50" json:"icon"`
	AlwaysShow   bool    `gorm:"default:false" json:"alwaysShow"`
	NoCache      bool    `gorm:"default:false" json:"noCache"`
	Affix        bool    `gorm:"default:false" json:"affix"`
	Hidden       bool    `gorm:"default:false" json:"hidden"`
	NoTagsView   bool    `gorm:"default:false" json:"noTagsView"`
	CanTo        bool    `gorm:"default:false" json:"canTo"`
	ActiveMenu   string  `gorm:"size:255" json:"activeMenu"`
	ExternalLink string  `gorm:"size:255" json:"externalLink"`
	Permission   string  `gorm:"type:text" json:"permission"` // JSON数组或逗号分隔的权限标识
	MenuOrder    int     `gorm:"default:0" json:"menuOrder"`
	Children     []*Menu `gorm:"-" json:"children,omitempty"`
}

// TableName 表名
func (Menu) TableName() string {
	return "sys_menu"
}
