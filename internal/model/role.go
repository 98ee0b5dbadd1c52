package model

import (
	"github.com/hadmin/pkg/dal"
)

// 角色状态
const (
	RoleStatusEnabled  = "1"
	RoleStatusDisabled = "0"
)

// Role 角色模型
type Role struct {
	dal.Model
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description string `gorm:"size:255" json:"description"`
	Status      string `gorm:"size:1;default:'1'" json:"status"` // 1:正常 0:禁用
	Sort        int    `gorm:"default:0" json:"sort"`
}

// TableName 表名
func (Role) TableName() string {
	return "sys_role"
}

// RoleMenu 角色菜单关联，MenuID为菜单业务编号。
// 关联行不走软删除，替换时直接物理删除再批量写入。
type RoleMenu struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleID    int64 `gorm:"index:idx_role_menu,unique;not null" json:"roleId"`
	MenuID    int64 `gorm:"index:idx_role_menu,unique;not null" json:"menuId"`
	IsEnabled bool  `gorm:"default:true" json:"isEnabled"`
}

// TableName 表名
func (RoleMenu) TableName() string {
	return "sys_role_menu"
}
