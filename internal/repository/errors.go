package repository

import "github.com/go-faster/errors"

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")
	// 一意制約違反
	ErrDuplicate = errors.New("duplicate")
	// 条件付き更新で前提が崩れていた
	ErrConflict = errors.New("conflict")
)
