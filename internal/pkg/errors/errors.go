package errors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalid           = errors.New("invalid")
	ErrConflict          = errors.New("conflict")
	ErrInternal          = errors.New("internal")
	ErrBadNonce          = errors.New("bad nonce")
	ErrImportInvalidJSON = errors.New("import invalid json")
	ErrImportEmpty       = errors.New("import file has no messages")
	ErrImportTooLarge    = errors.New("import file too large")
	ErrExportWriteFailed = errors.New("export write failed")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
