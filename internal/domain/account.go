package domain

// BankAccount is a balance in the simulated internal bank. Accounts are
// created by the seeding procedure and never deleted in normal operation.
type BankAccount struct {
	AccountNumber string `json:"account_number"`
	BalanceCents  int64  `json:"balance_cents"`
	SecretKey     string `json:"-"`
	BankName      string `json:"bank_name"`
	CreatedOn     string `json:"created_on"`
}
