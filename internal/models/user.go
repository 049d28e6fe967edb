package models

import (
	"time"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // Hash
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRef 对外暴露的用户投影，只包含 id 和显示名
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name}
}
