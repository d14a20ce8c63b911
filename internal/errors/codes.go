package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL; the frontend maps these to messages.
const (
	// auth
	AuthUnauthorized = "AUTH_UNAUTHORIZED" // no authenticated caller
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ownership
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // caller does not own the resource
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY" // owner-only operation

	// validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationTooLong      = "VALIDATION_TOO_LONG"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// domain specific
	CategoryNotFound      = "CATEGORY_NOT_FOUND"
	CategoryNameExists    = "CATEGORY_NAME_EXISTS"
	GearNotFound          = "GEAR_NOT_FOUND"
	GearSetMismatch       = "GEAR_SET_MISMATCH" // some equipment not found or not owned
	TripNotFound          = "TRIP_NOT_FOUND"
	ProfileNotFound       = "PROFILE_NOT_FOUND"
	ProfileUsernameExists = "PROFILE_USERNAME_EXISTS"

	// uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadInvalidFolder   = "UPLOAD_INVALID_FOLDER"
	UploadFailed          = "UPLOAD_FAILED"

	// internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
