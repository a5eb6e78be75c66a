package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Route explorer error codes. Every one of them ends the query that raised it.
const (
	// Token directory
	CodeCatalogUnavailable Code = "CATALOG_UNAVAILABLE"
	CodeTokenNotFound      Code = "TOKEN_NOT_FOUND"

	// Query input
	CodeInvalidAmount    Code = "INVALID_AMOUNT"
	CodeInvalidThreshold Code = "INVALID_THRESHOLD"
	CodeInvalidMode      Code = "INVALID_MODE"

	// Jupiter quote API
	CodeQuoteFetchFailed Code = "QUOTE_FETCH_FAILED"
	CodeNoRouteFound     Code = "NO_ROUTE_FOUND"

	// Catalog cache
	CodeCacheReadFailed  Code = "CACHE_READ_FAILED"
	CodeCacheWriteFailed Code = "CACHE_WRITE_FAILED"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
