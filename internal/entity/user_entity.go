package entity

import "time"

// User holds the account-level fields at users/{userId}. The id comes from the
// identity provider and is opaque here.
type User struct {
	Id        string
	Username  string
	Email     string
	Bio       string
	Fields    map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}
