package validator

import (
	"context"
	"regexp"
	"strings"

	"storefront/internal/repository"
	"storefront/internal/usecase"
)

// パスワード最低文字数
const minPasswordLen = 8

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email, password, name string) error {
	email = strings.TrimSpace(email)

	switch {
	case email == "":
		return usecase.Validation("email is required")
	case !isEmailLike(email):
		return usecase.Validation("email is invalid")
	case password == "":
		return usecase.Validation("password is required")
	case len(password) < minPasswordLen:
		return usecase.Validation("password must be at least 8 characters")
	case strings.TrimSpace(name) == "":
		return usecase.Validation("name is required")
	}

	// email重複チェック（DBが必要）
	u, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		return usecase.Internal(err)
	}
	if u != nil {
		return usecase.Rule("email already used")
	}
	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(_ context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return usecase.Validation("email and password are required")
	}
	if !isEmailLike(email) {
		return usecase.Validation("email is invalid")
	}
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}
