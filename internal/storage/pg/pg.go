package pg

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"github.com/dailymd-dev/dailymd/internal/config"
	internal_errors "github.com/dailymd-dev/dailymd/internal/errors"
	"github.com/dailymd-dev/dailymd/internal/logger"
)

// Storage implements every service-side storage interface on a single
// Postgres connection pool. Each statement is individually atomic; the
// controller flows above deliberately do not wrap multi-record mutations in
// transactions.
type Storage struct {
	db *sql.DB
}

func New(cfg *config.Pg) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Host, "dbname", cfg.Dbname)
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")

	storage := &Storage{db}
	if err := storage.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return storage, nil
}

func Connect(cfg *config.Pg) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// isUniqueViolation reports a Postgres unique constraint error, which the
// callers translate to a 409 conflict.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

func notFound(message string) *internal_errors.ErrorWithStatusCode {
	return &internal_errors.ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

func conflict(message string) *internal_errors.ErrorWithStatusCode {
	return &internal_errors.ErrorWithStatusCode{Message: message, StatusCode: http.StatusConflict}
}
