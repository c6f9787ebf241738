package apperrors

import (
	"net/http"
)

// Factories and predefined errors for the offer/application domain.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound etc.)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// --- Offer domain ---

// ErrOfferNotAvailable: the offer does not accept applications (draft,
// closed, expired, deactivated, or past its deadline).
var ErrOfferNotAvailable = New(
	CodeInvalidStatus,
	"offer",
	"This offer is not accepting applications",
	http.StatusConflict,
)

var ErrInvalidOfferStatus = New(
	CodeInvalidStatus,
	"offer",
	"Operation not permitted in the offer's current status",
	http.StatusConflict,
)

var ErrOfferHasApplications = New(
	CodeConflict,
	"offer",
	"Offer already has applications and cannot be deleted",
	http.StatusConflict,
)

// --- Application domain ---

var ErrOwnOfferApplication = New(
	CodeInvalidOperation,
	"application",
	"You cannot apply to your own offer",
	http.StatusBadRequest,
)

var ErrApplicationAlreadyExists = New(
	CodeAlreadyExists,
	"application",
	"You have already applied to this offer",
	http.StatusConflict,
)

var ErrApplicationNotPending = New(
	CodeInvalidStatus,
	"application",
	"Only pending applications can be processed",
	http.StatusConflict,
)

var ErrApplicationNotWithdrawable = New(
	CodeInvalidStatus,
	"application",
	"Only pending or shortlisted applications can be withdrawn",
	http.StatusConflict,
)

var ErrApplicationAccepted = New(
	CodeConflict,
	"application",
	"Accepted applications cannot be deleted",
	http.StatusConflict,
)

// ErrInsufficientPermissions: acting identity does not own the
// offer/application the operation targets. No internal detail leaks.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"You are not authorized to perform this action",
	http.StatusForbidden,
)
