package model

import (
	baseModel "healthcare_booking/pkg/model"
)

// 用户角色
const (
	RoleUser    = "user"
	RoleDoctor  = "doctor"
	RoleManager = "manager"
)

// 用户状态
const (
	StatusNormal  = "normal"
	StatusDeleted = "deleted"
)

// User 账号模型
// user_id 为带前缀的顺序业务主键 (US000001)
type User struct {
	UserID   string `gorm:"column:user_id;primaryKey" json:"userId"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt 哈希
	FullName string `gorm:"type:varchar(100)" json:"fullName"`
	Phone    string `gorm:"type:varchar(20)" json:"phone"`
	Role     string `gorm:"type:varchar(20);default:'user'" json:"role"` // user, doctor, manager
	Status   string `gorm:"type:varchar(20);default:'normal'" json:"status"`
	baseModel.Timestamps
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
