// silk/types/loan.go
package types

type LoanCalculationRequest struct {
	LoanAmount   float64 `json:"loanAmount"`
	InterestRate float64 `json:"interestRate,omitempty"`
	TenureMonths int     `json:"tenureMonths,omitempty"`
}

type SanctionRequest struct {
	ConversationID string  `json:"conversationId"`
	LoanAmount     float64 `json:"loanAmount"`
	Tenure         int     `json:"tenure"`
	EMI            float64 `json:"emi"`
	InterestRate   float64 `json:"interestRate"`
}

type LoginRequest struct {
	Email string `json:"email"`
}
