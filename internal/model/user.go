package model

import (
	"github.com/hadmin/pkg/dal"
)

// User 用户模型
type User struct {
	dal.Model
	Username string `gorm:"size:50;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"size:20" json:"phone"`
	Avatar   string `gorm:"size:255" json:"avatar"`
	Status   int8   `gorm:"default:1" json:"status"` // 1:正常 0:禁用
	RoleID   int64  `gorm:"index" json:"roleId"`
	DeptID   int64  `gorm:"index" json:"deptId"`
	Role     *Role  `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Dept     *Dept  `gorm:"foreignKey:DeptID" json:"dept,omitempty"`
}

// TableName 表名
func (User) TableName() string {
	return "sys_user"
}

// IsEnabled 账号是否可用
func (u *User) IsEnabled() bool {
	return u.Status == 1
}
