package services

import (
	"errors"
	"fmt"

	"agora/internal/store"
)

// 核心层错误类型，调用方用 errors.Is 区分
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error carries one of the kinds above with a caller-facing message.
type Error struct {
	Kind  error
	Msg   string
	cause error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.cause}
}

// storeErr maps a store failure onto the service error kinds. notFound is the
// message used when the entity is missing, e.g. "topic not found".
func storeErr(err error, notFound string) error {
	var svcErr *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &svcErr):
		return err
	case errors.Is(err, store.ErrNotFound):
		return &Error{Kind: ErrNotFound, Msg: notFound}
	}
	return &Error{Kind: ErrStoreUnavailable, Msg: "store unavailable: " + err.Error(), cause: err}
}

func invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}
