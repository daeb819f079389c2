package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	Id        string            `gorm:"type:varchar(128);primaryKey"`
	Username  string            `gorm:"type:varchar(64)"`
	Email     string            `gorm:"type:varchar(255)"`
	Bio       string            `gorm:"type:text"`
	Fields    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// AllModels lists every table for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{&User{}, &HistoryNote{}}
}
