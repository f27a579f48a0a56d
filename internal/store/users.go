package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"dashboard/internal/models"
)

// BootstrapAdminID is the seeded administrator account. It can never be
// deleted, so the system always retains at least one admin.
const BootstrapAdminID = 1

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// GetByUsername returns the full user row including the password hash,
// for credential checks at login.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		s.db.Rebind(`SELECT id, username, password_hash, role FROM users WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		s.db.Rebind(`SELECT id, username, role FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, `SELECT id, username, role FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		s.db.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`), id)
	return exists, err
}

// Create hashes the password and inserts a new user. The username must be
// unique; a clash surfaces as ErrDuplicateUsername.
func (s *UserStore) Create(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := s.insertUser(ctx, username, string(hash), role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return &models.User{ID: id, Username: username, Role: role}, nil
}

func (s *UserStore) insertUser(ctx context.Context, username, hash string, role models.Role) (int64, error) {
	if s.db.DriverName() == "pgx" {
		var id int64
		err := s.db.GetContext(ctx, &id,
			`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id`,
			username, hash, role)
		return id, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		username, hash, role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update applies the non-nil fields of patch in a single parameterized
// statement. Which fields a caller may set is decided at the handler
// layer; the store applies the patch as given.
func (s *UserStore) Update(ctx context.Context, id int64, patch models.UserPatch) error {
	var hash *string
	if patch.Password != nil {
		b, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		h := string(b)
		hash = &h
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE users
		SET username = COALESCE(?, username),
		    password_hash = COALESCE(?, password_hash),
		    role = COALESCE(?, role)
		WHERE id = ?`),
		patch.Username, hash, patch.Role, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user and every record they own in one transaction,
// so a crash can never leave a partial cascade.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	if id == BootstrapAdminID {
		return ErrProtectedUser
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM records WHERE user_id = ?`), id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
