package errx

// Common error constructors for convenience

// Internal creates an internal server error
func Internal(message string) *Error {
	return New(message, TypeInternal)
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(message, TypeValidation)
}

// Unauthorized creates an authorization error
func Unauthorized(message string) *Error {
	return New(message, TypeAuthorization)
}

// Throttled creates a rate-limit error
func Throttled(message string) *Error {
	return New(message, TypeThrottled)
}

// External creates an external service error
func External(message string) *Error {
	return New(message, TypeExternal)
}
