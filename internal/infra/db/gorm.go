package db

import (
	"context"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/go-faster/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// SQLログを出す
	Debug bool
}

// Connect はDBに接続して *gorm.DB を返す。
// database/sql は otelsql でラップし、クエリごとにスパンを出す。
func Connect(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	sqlDB, err := otelsql.Open("pgx", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, errors.Wrap(err, "open sql")
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "ping")
	}

	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "open gorm")
	}
	return gdb, nil
}

// Close は下の *sql.DB を閉じる
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
