package domain

// Session binds an opaque bearer token to a user until it is deleted.
type Session struct {
	Token  string `db:"token" json:"token"`
	UserID int64  `db:"userId" json:"userId"`
}
