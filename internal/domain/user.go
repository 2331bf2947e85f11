package domain

type Role string

const (
	RoleLearner    Role = "Learner"
	RoleInstructor Role = "Instructor"
	RoleAdmin      Role = "Admin"
)

type User struct {
	ID                int32  `json:"id"`
	Role              Role   `json:"role"`
	UserName          string `json:"user_name"`
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	PasswordHash      string `json:"-"`
	BankAccountNumber string `json:"bank_account_number"`
	BankSecret        string `json:"-"`
	// Cumulative payouts received from the platform, in cents.
	// Only meaningful for instructors.
	TotalEarningsCents int64  `json:"total_earnings_cents"`
	CreatedOn          string `json:"created_on"`
	UpdatedOn          string `json:"updated_on"`
}
