package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrVideoNotFound       = errors.New("video not found")
	ErrAccountNotFound     = errors.New("bank account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")

	ErrInvalidCredentials        = errors.New("invalid bank credentials")
	ErrInsufficientFunds         = errors.New("insufficient balance")
	ErrInsufficientPlatformFunds = errors.New("platform account has insufficient funds for payout")

	ErrAlreadyEnrolled      = errors.New("already enrolled in this course")
	ErrEnrollmentInProgress = errors.New("enrollment is already in progress or completed")
	ErrNoCourseAccess       = errors.New("no access to this course")

	ErrInvalidTransactionState = errors.New("transaction is not pending approval")
	ErrNotAuthorized           = errors.New("not authorized")

	ErrBankAccountNotLinked = errors.New("bank account not linked")
	ErrCourseLimitReached   = errors.New("course limit reached")
	ErrInvalidAmount        = errors.New("transfer amount must be positive")
)
