package handlers

import (
	"github.com/jmoiron/sqlx"

	"dashboard/internal/config"
	"dashboard/internal/store"
)

type Handler struct {
	Auth    *AuthHandler
	Users   *UserHandler
	Records *RecordHandler
}

func NewHandler(db *sqlx.DB, cfg config.AuthConfig) *Handler {
	users := store.NewUserStore(db)
	records := store.NewRecordStore(db)
	return &Handler{
		Auth:    NewAuthHandler(users, cfg),
		Users:   NewUserHandler(users),
		Records: NewRecordHandler(records),
	}
}
