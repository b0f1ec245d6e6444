package domain

import "errors"

// Error kinds. Every domain error unwraps to exactly one of these, which is
// what the transport layer maps to a status code.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("access forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid request")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries a human readable message for the client alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }
func Invalid(msg string) error      { return &Error{Kind: ErrInvalid, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

var (
	ErrDuplicateApplication = Conflict("You have already applied for the job!")
	ErrAlreadyShortlisted   = Conflict("Already shortlisted!")
	ErrEmailTaken           = Conflict("E-Mail address already exists!")
	ErrEmailNotRegistered   = Unauthorized("Email does not exist")
	ErrWrongPassword        = Unauthorized("Incorrect Password")
	ErrInvalidResume        = Invalid("Resume must be a PDF document")
	ErrUserNotFound         = NotFound("User not found")
	ErrJobNotFound          = NotFound("Job not found")
	ErrApplicantNotFound    = NotFound("Applicant not found")
	ErrNotApplicantOwner    = Forbidden("You are unauthorized to do the action!")
)
