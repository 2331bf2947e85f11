package domain

import "time"

type TransactionType string

const (
	TransactionTypePurchase TransactionType = "PURCHASE"
	TransactionTypeLumpSum  TransactionType = "LUMP_SUM"
)

type TransactionStatus string

const (
	TransactionStatusPendingApproval TransactionStatus = "PENDING_APPROVAL"
	TransactionStatusValidated       TransactionStatus = "VALIDATED"
	TransactionStatusCompleted       TransactionStatus = "COMPLETED"
)

// ActiveTransactionStatuses are the statuses that count toward the
// one-active-purchase-per-(learner, course) rule.
var ActiveTransactionStatuses = []TransactionStatus{
	TransactionStatusPendingApproval,
	TransactionStatusValidated,
	TransactionStatusCompleted,
}

// Transaction records one money movement through the platform account.
// A nil user reference denotes the platform itself.
type Transaction struct {
	ID                int32             `json:"id"`
	Type              TransactionType   `json:"type"`
	AmountCents       int64             `json:"amount_cents"`
	FromUserID        *int32            `json:"from_user_id,omitempty"`
	ToUserID          *int32            `json:"to_user_id,omitempty"`
	FromAccountNumber string            `json:"from_account_number"`
	ToAccountNumber   string            `json:"to_account_number"`
	Status            TransactionStatus `json:"status"`
	CourseID          int32             `json:"course_id"`
	CreatedOn         time.Time         `json:"created_on"`
}
