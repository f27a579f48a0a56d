package models

// Role is one of exactly two values.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password_hash" json:"-"`
	Role     Role   `db:"role" json:"role"`
}

// UserPatch carries the optional fields of a partial user update. A nil
// field is left unchanged. Password is plaintext; the store hashes it.
type UserPatch struct {
	Username *string
	Password *string
	Role     *Role
}

func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Password == nil && p.Role == nil
}
