package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reconcile"
)

// unique_violation no postgres
const pgUniqueViolation = "23505"

// notFound traduz gorm.ErrRecordNotFound para o erro de domínio.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, reconcile.ErrNotFound)
	}
	return err
}

// duplicate traduz violação de índice único (postgres ou sqlite) para
// reconcile.ErrConflict, mantendo o erro original na cadeia.
func duplicate(err error, what string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation,
		errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w: %w", what, reconcile.ErrConflict, err)
	}
	return err
}
