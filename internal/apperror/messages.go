package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeInvalidInput:    "Invalid input provided",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	CodeCatalogUnavailable: "Failed to load the Jupiter token list",
	CodeTokenNotFound:      "Token not found in the Jupiter token list",

	CodeInvalidAmount:    "Amount must be a positive number",
	CodeInvalidThreshold: "Profit threshold must be a number",
	CodeInvalidMode:      "Unknown swap mode",

	CodeQuoteFetchFailed: "Failed to fetch quotes from Jupiter",
	CodeNoRouteFound:     "No swap route found, the token may be illiquid",

	CodeCacheReadFailed:  "Failed to read the token catalog cache",
	CodeCacheWriteFailed: "Failed to write the token catalog cache",

	CodeCircuitOpen: "Circuit breaker is open",
}

// Message returns the registered message for a code.
func Message(code Code) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return string(code)
}
