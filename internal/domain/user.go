package domain

import "time"

// User 账号记录。RefreshToken / RefreshTokenExp 要么同时有值要么同时为空：
// 登录时一起写入，登出时一起清空。
type User struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username        string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash    string     `gorm:"size:255;not null" json:"-"`
	RefreshToken    *string    `gorm:"size:512" json:"-"`
	RefreshTokenExp *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(u *User) error
	FindByID(id uint) (*User, error)
	FindByUsername(username string) (*User, error)
	SetRefreshToken(id uint, token string, exp time.Time) error
	ClearRefreshToken(id uint) error
}
