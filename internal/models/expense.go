package models

// Expense is one spending record. Amount is in whole currency units
// (fractional amounts are not representable). Date is YYYY-MM-DD, stamped by
// the server at creation and never updated afterwards.
type Expense struct {
	ID          int    `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
	Amount      int    `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	UserID      int    `json:"user_id"`
}
