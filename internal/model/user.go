package model

import "time"

// 通知渠道（粉丝偏好）
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// User 用户（作者 / 粉丝共用一张表）
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Login     string    `gorm:"type:varchar(32);uniqueIndex:ux_user_login;not null"`
	Password  string    `gorm:"type:varchar(120);not null"`
	Age       int       `gorm:"not null;default:0"`
	IsActive  bool      `gorm:"not null;default:true"`
	Phone     string    `gorm:"type:varchar(20)"`
	Email     string    `gorm:"type:varchar(128)"`
	Preferred string    `gorm:"type:varchar(8);not null;default:email"` // email / sms
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
