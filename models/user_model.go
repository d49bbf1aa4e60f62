package models

import "time"

type User struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Username    string       `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Password    string       `json:"-" gorm:"column:password_hash;type:varchar(255);not null"`
	FullName    string       `json:"full_name" gorm:"type:varchar(255)"`
	Role        string       `json:"role" gorm:"type:varchar(10);not null;default:'user'"`
	Active      bool         `json:"active" gorm:"not null"`
	LastLogin   *time.Time   `json:"last_login"`
	Permissions []Permission `json:"permissions" gorm:"many2many:user_permissions;"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Permission struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"permission_name" gorm:"column:permission_name;type:varchar(50);uniqueIndex;not null"`
	Description string `json:"permission_description" gorm:"column:permission_description;type:varchar(255)"`
	Category    string `json:"category" gorm:"type:varchar(50)"`
}
