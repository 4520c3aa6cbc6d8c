package app

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Ошибки хранилища. Repository оборачивает их через %w
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrDuplicateEmail - частный случай ErrDuplicate: занят email
	ErrDuplicateEmail = fmt.Errorf("%w: email", ErrDuplicate)
	// ErrReferenceMissing - строка ссылается на удаленного пользователя или пост
	ErrReferenceMissing = errors.New("referenced row missing")
)

func NotFound(detail string) error {
	return status.Error(codes.NotFound, detail)
}

func Forbidden(detail string) error {
	return status.Error(codes.PermissionDenied, detail)
}

func BadRequest(detail string) error {
	return status.Error(codes.InvalidArgument, detail)
}

func Conflict(detail string) error {
	return status.Error(codes.AlreadyExists, detail)
}

func Unauthorized(detail string) error {
	return status.Error(codes.Unauthenticated, detail)
}
