package specification

import "gorm.io/gorm"

type ByUserID struct {
	ID string
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("users.id = ?", s.ID)
}
