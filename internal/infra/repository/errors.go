package repository

import (
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	repo "storefront/internal/repository"
)

const uniqueViolation = "23505"

// gorm/pgx のエラーを repository のエラーへ寄せる
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Wrap(repo.ErrDuplicate, pgErr.ConstraintName)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicate
	}
	return err
}
