package models

import "github.com/google/uuid"

type Equipment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"ID"`
	Code     string    `gorm:"size:50;not null;unique" json:"code"`
	Label    string    `gorm:"size:255;not null" json:"label"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
}
