package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrUnauthorized
	ErrForbidden
	ErrNotFound
	ErrInvalid
	ErrConflict
	ErrInternal
	ErrInvalidFile
	ErrBadNonce
	ErrImportFailed
	ErrImportInvalidJSON
	ErrImportEmpty
	ErrImportTooLarge
	ErrExportFailed
)
