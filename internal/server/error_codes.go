package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidID       = 1003
	ErrCodeMissingRequired = 1004

	// Domain state (2xxx)
	ErrCodeFolderNotFound = 2001
	ErrCodeMemoNotFound   = 2002
	ErrCodeAssetNotFound  = 2003
	ErrCodeConflict       = 2101

	// Auth (3xxx)
	ErrCodeUnauthorized = 3001

	// Internal/system (4xxx)
	ErrCodeInternal          = 4001
	ErrCodeStoreFailure      = 4002
	ErrCodeAssetStoreFailure = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeMemoNotFound
	case 409:
		return ErrCodeConflict
	case 413:
		return ErrCodeRequestTooLarge
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
