package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidQuery = New(
		"INVALID_QUERY",
		"Search query must not be empty",
		http.StatusBadRequest,
	)

	ErrUnknownCategory = New(
		"UNKNOWN_CATEGORY",
		"Unknown search category",
		http.StatusBadRequest,
	)

	ErrRateLimitExceeded = New(
		"RATE_LIMIT_EXCEEDED",
		"Rate limit exceeded",
		http.StatusTooManyRequests,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
