package specification

import (
	"gorm.io/gorm"
)

type HistoryOwnedByUser struct {
	UserID string
}

func (s HistoryOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("history.user_id = ?", s.UserID)
}

// EditedNotAfter matches rows whose last_edited is not newer than At.
type EditedNotAfter struct {
	At interface{}
}

func (s EditedNotAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("history.last_edited <= ?", s.At)
}

var NewestEditedFirst = OrderBy{Field: "history.last_edited", Desc: true}
