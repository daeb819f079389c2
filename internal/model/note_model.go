package model

import (
	"time"

	"github.com/google/uuid"
)

type HistoryNote struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     string    `gorm:"type:varchar(128);not null;index:idx_history_user_edited,priority:1"`
	Title      string    `gorm:"type:varchar(255);not null"`
	Content    string    `gorm:"type:text"`
	CreatedOn  time.Time `gorm:"not null"`
	LastEdited time.Time `gorm:"not null;index:idx_history_user_edited,priority:2,sort:desc"`
}

func (HistoryNote) TableName() string {
	return "history"
}
