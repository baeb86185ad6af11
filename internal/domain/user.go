package domain

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	JoinedAt     time.Time `db:"joined_at" json:"joined_at"`
}

type UserProfile struct {
	ID      int64  `db:"id" json:"-"`
	UserID  int64  `db:"user_id" json:"user_id"`
	Bio     string `db:"bio" json:"bio"`
	GitHub  string `db:"github" json:"github"`
	Twitter string `db:"twitter" json:"twitter"`
	Website string `db:"website" json:"website"`
}

type Subscriber struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	SubscribedAt time.Time `db:"subscribed_at" json:"subscribed_at"`
}

// Viewer is the identity a request acts as. The zero value is anonymous.
type Viewer struct {
	UserID int64
}

var Anonymous = Viewer{}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == 0
}

// Owns reports whether the viewer is the author of a.
func (v Viewer) Owns(a *Article) bool {
	return !v.IsAnonymous() && a != nil && a.AuthorID == v.UserID
}
