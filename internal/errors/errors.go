package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is returned when a request carries no session cookie.
	ErrUnauthorized = errors.New("session cookie not found")
	// ErrInvalidSession is returned when the session token is unknown or expired.
	ErrInvalidSession = errors.New("invalid or expired session")
	// ErrInvalidCredentials is returned when name or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid name or password")
	// ErrWrongPassword is returned when the current password given on a password change does not match.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrNameTaken is returned when a display name is already used by another user.
	ErrNameTaken = errors.New("name already taken")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound is returned when a post is not found.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound is returned when a comment is not found.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotPostOwner is returned when a user modifies a post they do not own.
	ErrNotPostOwner = errors.New("you can only modify your own posts")
	// ErrNotCommentOwner is returned when a user modifies a comment they did not write.
	ErrNotCommentOwner = errors.New("you can only modify your own comments")
	// ErrInvalidRating is returned when a rating value is outside 0..5.
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
	// ErrTooManyMedia is returned when more media URLs are attached than allowed.
	ErrTooManyMedia = errors.New("too many media urls")
	// ErrNoFiles is returned when an upload carries no file.
	ErrNoFiles = errors.New("no file uploaded")
	// ErrTooManyFiles is returned when an upload carries more files than allowed.
	ErrTooManyFiles = errors.New("too many files")
	// ErrFileTooLarge is returned when an uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsupportedMedia is returned when an uploaded file is not an image.
	ErrUnsupportedMedia = errors.New("only images can be uploaded")
)

// Machine-readable error codes.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeInternal             = "INTERNAL_SERVER_ERROR"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string     `json:"error"`
	Code   string     `json:"code"`
	Fields *FieldTree `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Internal reports whether err maps to a 500.
func Internal(err error) bool {
	return MapErrorToHTTP(err).StatusCode == http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are unwrapped.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidSession),
		errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, rootMessage(err), CodeUnauthorized)
	case errors.Is(err, ErrNotPostOwner), errors.Is(err, ErrNotCommentOwner):
		return NewHTTPError(http.StatusForbidden, rootMessage(err), CodeForbidden)
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrCommentNotFound):
		return NewHTTPError(http.StatusNotFound, rootMessage(err), CodeNotFound)
	case errors.Is(err, ErrNameTaken):
		return NewHTTPError(http.StatusConflict, rootMessage(err), CodeConflict)
	case errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrTooManyMedia),
		errors.Is(err, ErrNoFiles),
		errors.Is(err, ErrTooManyFiles):
		return NewHTTPError(http.StatusBadRequest, rootMessage(err), CodeBadRequest)
	case errors.Is(err, ErrFileTooLarge):
		return NewHTTPError(http.StatusRequestEntityTooLarge, rootMessage(err), CodePayloadTooLarge)
	case errors.Is(err, ErrUnsupportedMedia):
		return NewHTTPError(http.StatusUnsupportedMediaType, rootMessage(err), CodeUnsupportedMediaType)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", CodeInternal)
	}
}

// rootMessage returns the message of the innermost error so that wrapping
// context added by services never leaks into responses.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
