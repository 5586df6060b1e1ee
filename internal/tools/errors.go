package tools

import (
	"errors"
	"fmt"
)

// ErrorKind is a short machine-readable failure class. The orchestrator
// branches on kinds, never on message text.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindCategoryNotFound ErrorKind = "category_not_found"
	KindAlreadyExists    ErrorKind = "already_exists"
	KindInvalidArguments ErrorKind = "invalid_arguments"
	KindUnknownTool      ErrorKind = "unknown_tool"
	KindStoreFailure     ErrorKind = "store_failure"
)

// Failure is a classified tool error.
type Failure struct {
	Kind    ErrorKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Fail builds a classified error.
func Fail(kind ErrorKind, format string, args ...any) error {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from err. Unclassified errors come from
// the world store and report KindStoreFailure.
func KindOf(err error) ErrorKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindStoreFailure
}
