package models

// Record belongs to exactly one user. Username is populated by listing
// and lookup queries that join the owner.
type Record struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	UserID      int64  `db:"user_id" json:"user_id"`
	Username    string `db:"username" json:"username,omitempty"`
}
