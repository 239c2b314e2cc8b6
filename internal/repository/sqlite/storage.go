package sqlite

import (
	"database/sql"

	"github.com/ollyware/tokend/internal/repository"
)

type Storage struct {
	db *sql.DB
}

func NewStorage(db *sql.DB) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) Tokens() repository.TokenRepo {
	return &TokenRepo{DB: s.db}
}
