package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"dashboard/internal/models"
)

type RecordStore struct {
	db *sqlx.DB
}

func NewRecordStore(db *sqlx.DB) *RecordStore {
	return &RecordStore{db: db}
}

// ListOptions narrows and orders a record listing. OwnerID, when set,
// restricts the result to records owned by that user and is applied
// before search and sort, so a scoped view can never widen.
type ListOptions struct {
	OwnerID *int64
	Search  string
	Sort    string
	Order   string
}

// sortColumns is the allow-list of sortable fields. Anything else falls
// back to id.
var sortColumns = map[string]string{
	"id":          "records.id",
	"title":       "records.title",
	"description": "records.description",
	"username":    "users.username",
}

func (o ListOptions) orderBy() string {
	col, ok := sortColumns[o.Sort]
	if !ok {
		col = "records.id"
	}
	dir := "ASC"
	if strings.EqualFold(o.Order, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}

const recordColumns = `records.id, records.title, records.description, records.user_id, users.username`

// List returns records joined with their owner's username. The ownership
// restriction is applied unconditionally; search matches a
// case-insensitive substring of title, description or owner username.
func (s *RecordStore) List(ctx context.Context, opts ListOptions) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records JOIN users ON users.id = records.user_id`

	var clauses []string
	var args []interface{}
	if opts.OwnerID != nil {
		clauses = append(clauses, `records.user_id = ?`)
		args = append(args, *opts.OwnerID)
	}
	if opts.Search != "" {
		clauses = append(clauses,
			`(LOWER(records.title) LIKE ? OR LOWER(records.description) LIKE ? OR LOWER(users.username) LIKE ?)`)
		needle := "%" + strings.ToLower(opts.Search) + "%"
		args = append(args, needle, needle, needle)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY " + opts.orderBy()

	out := []models.Record{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecordStore) Get(ctx context.Context, id int64) (*models.Record, error) {
	var rec models.Record
	err := s.db.GetContext(ctx, &rec, s.db.Rebind(
		`SELECT `+recordColumns+` FROM records JOIN users ON users.id = records.user_id WHERE records.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a record after checking the owner exists.
func (s *RecordStore) Create(ctx context.Context, title, description string, userID int64) (*models.Record, error) {
	ok, err := s.ownerExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOwnerNotFound
	}

	id, err := s.insertRecord(ctx, title, description, userID)
	if err != nil {
		return nil, err
	}
	return &models.Record{ID: id, Title: title, Description: description, UserID: userID}, nil
}

// Update replaces all mutable fields of a record. The owner must exist.
func (s *RecordStore) Update(ctx context.Context, id int64, title, description string, userID int64) (*models.Record, error) {
	ok, err := s.ownerExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOwnerNotFound
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE records SET title = ?, description = ?, user_id = ? WHERE id = ?`),
		title, description, userID, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return &models.Record{ID: id, Title: title, Description: description, UserID: userID}, nil
}

func (s *RecordStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM records WHERE id = ?`), id)
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
	return nil
}

func (s *RecordStore) ownerExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		s.db.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`), userID)
	return exists, err
}

func (s *RecordStore) insertRecord(ctx context.Context, title, description string, userID int64) (int64, error) {
	if s.db.DriverName() == "pgx" {
		var id int64
		err := s.db.GetContext(ctx, &id,
			`INSERT INTO records (title, description, user_id) VALUES ($1, $2, $3) RETURNING id`,
			title, description, userID)
		return id, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (title, description, user_id) VALUES (?, ?, ?)`,
		title, description, userID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
