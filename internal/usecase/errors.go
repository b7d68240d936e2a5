package usecase

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// エラーの種類。HTTPのステータスとは別に、呼び出し側で分岐できるようにする
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindBusinessRule ErrorKind = "business_rule"
	KindInternal     ErrorKind = "internal"
)

// 1注文は1店舗。複数店舗の商品をまとめて注文できない（業務ルール）
var ErrMultiStoreCheckout = errors.New("items from multiple stores cannot be ordered together")

// HTTPError はハンドラがそのままレスポンスにするエラー
type HTTPError struct {
	Status  int
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *HTTPError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.cause }

// Cause は内部の原因（開発環境でだけ details に出す）
func (e *HTTPError) Cause() error { return e.cause }

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Kind:    kindOf(status),
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func kindOf(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest:
		return KindValidation
	default:
		return KindInternal
	}
}

// 401
func Unauthorized() error {
	return &HTTPError{Status: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
}

// 403
func Forbidden(msg string) error {
	return &HTTPError{Status: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

// 400 入力の不備
func Validation(msg string) error {
	return &HTTPError{Status: http.StatusBadRequest, Kind: KindValidation, Message: msg}
}

// 404 存在しない・所有者でない
func NotFound(msg string) error {
	return &HTTPError{Status: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

// 400 業務ルール違反
func Rule(msg string) error {
	return &HTTPError{Status: http.StatusBadRequest, Kind: KindBusinessRule, Message: msg}
}

// ruleFrom は番兵エラーをそのまま業務ルール違反にする（errors.Is で判定できる）
func ruleFrom(err error) error {
	return &HTTPError{Status: http.StatusBadRequest, Kind: KindBusinessRule, Message: err.Error(), cause: err}
}

// 500
func Internal(cause error) error {
	return &HTTPError{Status: http.StatusInternalServerError, Kind: KindInternal, Message: "internal server error", cause: cause}
}
