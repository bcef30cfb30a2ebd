package authz

import "errors"

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrExpiredCredential = errors.New("expired credential")
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrInsufficientRole  = errors.New("insufficient role")
	ErrOutOfRegionScope  = errors.New("out of region scope")
	ErrNotOwner          = errors.New("not the owner")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// IsAuthFailure reports whether err should surface as a uniform 401. The
// caller must not leak which specific check failed.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrExpiredCredential) ||
		errors.Is(err, ErrPrincipalNotFound)
}
