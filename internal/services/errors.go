package services

import (
	"errors"
	"fmt"

	apperrors "github.com/UniFest-2025/event-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Auth specific errors
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrSubjectNotFound    = errors.New("the user belonging to this token no longer exists")
	ErrStalePassword      = errors.New("password changed after token was issued")
	ErrWrongPassword      = errors.New("current password is incorrect")

	// User specific errors
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered for this role")
	ErrInvalidRole    = errors.New("invalid user role")
	ErrCollegeUnknown = errors.New("college not found")

	// Event specific errors
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNotEditable    = errors.New("event cannot be modified in current status")
	ErrRegistrationClosed  = errors.New("registration deadline has passed")
	ErrEventFull           = errors.New("event has reached max participants")
	ErrAlreadyRegistered   = errors.New("student is already registered for this event")
	ErrNotRegistered       = errors.New("student is not registered for this event")
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrInvalidDeadline     = errors.New("registration deadline must be before start date")
	ErrResultsNotPublished = errors.New("event results are not published")

	// Team specific errors
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameTaken       = errors.New("team name already exists for this event")
	ErrTeamTooLarge        = errors.New("team exceeds the maximum member count")
	ErrTeamEmpty           = errors.New("team must have at least one member")
	ErrLeaderNotInTeam     = errors.New("leader must be a member of the team")
	ErrLeaderNameMismatch  = errors.New("leader name does not match the registered account")
	ErrMembersNotFound     = errors.New("one or more member emails are not registered students")
	ErrMemberAlreadyOnTeam = errors.New("student is already on a team for this event")
	ErrMemberNotFound      = errors.New("student is not a member of this team")
	ErrCannotRemoveLeader  = errors.New("team leader cannot be removed from the team")
	ErrJoinCodeNotFound    = errors.New("join code does not match any team")

	// Certificate specific errors
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrCertificateExists   = errors.New("certificate already issued for this student and event")
	ErrInvalidCertTitle    = errors.New("invalid certificate title")

	// Notification specific errors
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoReceivers          = errors.New("notification has no receivers")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// MemberResolutionError carries the emails the resolver could not match so
// the client can correct its roster in one round trip.
type MemberResolutionError struct {
	NotFound []string `json:"not_found"`
}

func (e *MemberResolutionError) Error() string {
	return fmt.Sprintf("members not found: %v", e.NotFound)
}

func (e *MemberResolutionError) Unwrap() error {
	return ErrMembersNotFound
}

type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Unwrap() error {
	return ErrForbidden
}

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrCertificateNotFound) ||
		errors.Is(err, ErrNotificationNotFound) ||
		errors.Is(err, ErrJoinCodeNotFound) ||
		errors.Is(err, ErrCollegeUnknown)
}

// IsUnauthenticated checks if error represents a failed login or a rejected
// token (maps to 401).
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountDisabled) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrStalePassword) ||
		errors.Is(err, ErrWrongPassword)
}

// IsForbidden checks if error represents a role/ownership rejection (403).
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a business-rule or uniqueness
// conflict. These map to 400 on the wire, not 409.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrTeamNameTaken) ||
		errors.Is(err, ErrTeamTooLarge) ||
		errors.Is(err, ErrTeamEmpty) ||
		errors.Is(err, ErrLeaderNotInTeam) ||
		errors.Is(err, ErrLeaderNameMismatch) ||
		errors.Is(err, ErrMembersNotFound) ||
		errors.Is(err, ErrMemberAlreadyOnTeam) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrCannotRemoveLeader) ||
		errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrRegistrationClosed) ||
		errors.Is(err, ErrEventFull) ||
		errors.Is(err, ErrEventNotEditable) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidDeadline) ||
		errors.Is(err, ErrCertificateExists) ||
		errors.Is(err, ErrInvalidCertTitle) ||
		errors.Is(err, ErrNoReceivers)
}
