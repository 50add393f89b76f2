package service

import "errors"

// Reason names why access to a gated document was refused.
type Reason string

const (
	ReasonTokenMissing        Reason = "token_missing"
	ReasonTokenNotFound       Reason = "token_not_found"
	ReasonAccessDeactivated   Reason = "access_deactivated"
	ReasonAccessExpired       Reason = "access_expired"
	ReasonDocumentUnavailable Reason = "document_unavailable"
	ReasonEmailMismatch       Reason = "email_mismatch"
	ReasonViewerLoadFailure   Reason = "viewer_load_failure"
	ReasonUploadFailure       Reason = "upload_failure"
)

// AccessError is a terminal, user-visible denial. Only EmailMismatch may be retried by the visitor.
type AccessError struct {
	Reason  Reason
	Message string
}

func (e *AccessError) Error() string { return e.Message }

var (
	ErrTokenMissing        = &AccessError{ReasonTokenMissing, "no access token provided"}
	ErrTokenNotFound       = &AccessError{ReasonTokenNotFound, "this access link is not valid"}
	ErrAccessDeactivated   = &AccessError{ReasonAccessDeactivated, "access to this document has been deactivated"}
	ErrAccessExpired       = &AccessError{ReasonAccessExpired, "access to this document has expired"}
	ErrDocumentUnavailable = &AccessError{ReasonDocumentUnavailable, "the document is no longer available"}
	ErrEmailMismatch       = &AccessError{ReasonEmailMismatch, "the email does not match this access link"}
	ErrViewerLoadFailure   = &AccessError{ReasonViewerLoadFailure, "failed to load the document, reload the page to try again"}
	ErrUploadFailure       = &AccessError{ReasonUploadFailure, "document upload failed"}
)

// ReasonOf extracts the denial reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var ae *AccessError
	if errors.As(err, &ae) {
		return ae.Reason, true
	}
	return "", false
}

// Operator-side validation errors.
var (
	ErrIDRequired           = errors.New("id is required")
	ErrNotFound             = errors.New("document not found")
	ErrGrantNotFound        = errors.New("grant not found")
	ErrReaderNil            = errors.New("reader is nil")
	ErrTitleRequired        = errors.New("title is required")
	ErrUnsupportedType      = errors.New("only PDF documents are accepted")
	ErrFileTooLarge         = errors.New("file exceeds the upload limit")
	ErrInvalidEmail         = errors.New("a valid email is required")
	ErrInvalidExpiry        = errors.New("expiry must be a date (YYYY-MM-DD) or RFC3339 timestamp")
	ErrExpiryInPast         = errors.New("expiry must be today or later")
	ErrNothingToUpdate      = errors.New("nothing to update")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
)
