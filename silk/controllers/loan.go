// silk/controllers/loan.go
package controllers

import (
	"context"

	"silk/silk/services/loan"
	"silk/silk/types"
)

type LoanController struct{}

func NewLoanController() *LoanController {
	return &LoanController{}
}

func (c *LoanController) Calculate(ctx context.Context, req types.LoanCalculationRequest) (loan.Result, error) {
	return loan.Calculate(req.LoanAmount, req.InterestRate, req.TenureMonths)
}
