package models

import (
	"time"

	"github.com/WideDream/sto-mana/utils"
	"gorm.io/gorm"
)

// User is an operator account. The store runs with a single bootstrap account.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
	Name     string `gorm:"size:128" json:"name"`

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Hash password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
