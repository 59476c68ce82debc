// Package loan computes equated-monthly-installment schedules for the loan
// options presented during negotiation.
package loan

import (
	"errors"
	"math"
)

const (
	DefaultInterestRate = 10.5
	DefaultTenureMonths = 36
)

// tenures offered alongside every quote
var optionTenures = []int{24, 36, 48, 60}

var ErrInvalidAmount = errors.New("invalid loan amount")

type Option struct {
	Tenure        int     `json:"tenure"`
	EMI           int     `json:"emi"`
	TotalPayment  int     `json:"totalPayment"`
	TotalInterest int     `json:"totalInterest"`
	InterestRate  float64 `json:"interestRate"`
}

type Result struct {
	RequestedEMI  int      `json:"requestedEmi"`
	TotalPayment  int      `json:"totalPayment"`
	TotalInterest int      `json:"totalInterest"`
	Options       []Option `json:"options"`
}

// EMI applies the standard amortization formula
// P*R*(1+R)^N / ((1+R)^N - 1) with R the monthly rate.
func EMI(principal, annualRate float64, tenureMonths int) float64 {
	r := annualRate / 12 / 100
	n := float64(tenureMonths)
	factor := math.Pow(1+r, n)
	return principal * r * factor / (factor - 1)
}

// Calculate returns the EMI for the requested terms plus a fixed spread of
// alternative tenures. Zero rate or tenure fall back to the defaults.
func Calculate(amount, annualRate float64, tenureMonths int) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}
	if annualRate <= 0 {
		annualRate = DefaultInterestRate
	}
	if tenureMonths <= 0 {
		tenureMonths = DefaultTenureMonths
	}

	emi := EMI(amount, annualRate, tenureMonths)
	total := emi * float64(tenureMonths)

	options := make([]Option, 0, len(optionTenures))
	for _, tenure := range optionTenures {
		monthly := EMI(amount, annualRate, tenure)
		optTotal := monthly * float64(tenure)
		options = append(options, Option{
			Tenure:        tenure,
			EMI:           int(math.Round(monthly)),
			TotalPayment:  int(math.Round(optTotal)),
			TotalInterest: int(math.Round(optTotal - amount)),
			InterestRate:  annualRate,
		})
	}

	return Result{
		RequestedEMI:  int(math.Round(emi)),
		TotalPayment:  int(math.Round(total)),
		TotalInterest: int(math.Round(total - amount)),
		Options:       options,
	}, nil
}
