package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	LearnerID     string    `gorm:"size:64;uniqueIndex;not null" json:"learnerId"`
	Name          string    `gorm:"size:100" json:"name"`
	Role          UserRole  `gorm:"size:20;default:'student'" json:"role"`
	DeclaredStyle string    `gorm:"size:20" json:"declaredStyle"` // 自述学习风格，样本不足时参考
	Grade         string    `gorm:"size:20" json:"grade"`
	Disabled      bool      `gorm:"default:false" json:"disabled"`
	LastSeen      time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
