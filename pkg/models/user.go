package model

import (
	"time"

	"taskmind.com/taskmind/pkg/constants"
)

type User struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Name            string         `gorm:"not null" json:"name" bson:"name"`
	Email           string         `gorm:"uniqueIndex;size:320;not null" json:"email" bson:"email"`
	Password        string         `gorm:"not null" json:"-" bson:"password"`
	Role            constants.Role `gorm:"type:varchar(10);not null;default:'user'" json:"role" bson:"role"`
	ProfileImageURL string         `json:"profileImageUrl,omitempty" bson:"profile_image_url,omitempty"`
	CreatedAt       time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}
