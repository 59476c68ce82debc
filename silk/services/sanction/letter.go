// Package sanction renders the loan sanction letter handed to an approved
// customer.
package sanction

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Letter is the data behind one sanction document.
type Letter struct {
	Date         string
	ReferenceNo  string
	CustomerName string
	LoanAmount   float64
	InterestRate float64
	TenureMonths int
	EMI          float64
}

// NewLetter fills in the generated fields: issue date, reference number,
// and the customer-name fallback.
func NewLetter(customerName string, amount, rate float64, tenure int, emi float64) Letter {
	if strings.TrimSpace(customerName) == "" {
		customerName = "Valued Customer"
	}
	return Letter{
		Date:         time.Now().Format("02 January 2006"),
		ReferenceNo:  NewReferenceNo(),
		CustomerName: customerName,
		LoanAmount:   amount,
		InterestRate: rate,
		TenureMonths: tenure,
		EMI:          emi,
	}
}

// NewReferenceNo issues a SILK- reference with 8 uppercase hex characters.
func NewReferenceNo() string {
	return "SILK-" + strings.ToUpper(uuid.New().String()[:8])
}

// ProcessingFee is 2% of the sanctioned amount.
func (l Letter) ProcessingFee() int {
	return int(math.Round(l.LoanAmount * 0.02))
}

// Render produces the letter as a standalone HTML document.
func Render(l Letter) (string, error) {
	var buf bytes.Buffer
	err := letterTemplate.Execute(&buf, map[string]any{
		"Date":          l.Date,
		"ReferenceNo":   l.ReferenceNo,
		"CustomerName":  l.CustomerName,
		"LoanAmount":    FormatINR(int64(math.Round(l.LoanAmount))),
		"InterestRate":  strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", l.InterestRate), "0"), "."),
		"TenureMonths":  l.TenureMonths,
		"EMI":           FormatINR(int64(math.Round(l.EMI))),
		"ProcessingFee": FormatINR(int64(l.ProcessingFee())),
	})
	if err != nil {
		return "", fmt.Errorf("render sanction letter: %w", err)
	}
	return buf.String(), nil
}

// FormatINR groups digits the Indian way: the last three, then pairs
// (1234567 -> 12,34,567).
func FormatINR(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(append(groups, tail), ",")
	}
	if neg {
		s = "-" + s
	}
	return s
}

var letterTemplate = template.Must(template.New("sanction").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; padding: 40px; }
    .header { text-align: center; border-bottom: 3px solid #0891b2; padding-bottom: 20px; }
    .logo { font-size: 32px; font-weight: bold; color: #0891b2; }
    .content { margin-top: 30px; line-height: 1.8; }
    .details { background: #f0f9ff; padding: 20px; margin: 20px 0; border-left: 4px solid #0891b2; }
    .signature { margin-top: 60px; }
    .footer { margin-top: 40px; text-align: center; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="header">
    <div class="logo">🏦 SILK FINANCE</div>
    <p>Your Trusted Financial Partner</p>
  </div>

  <div class="content">
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Reference No:</strong> {{.ReferenceNo}}</p>

    <h2>LOAN SANCTION LETTER</h2>

    <p>Dear {{.CustomerName}},</p>

    <p>We are pleased to inform you that your personal loan application has been <strong>APPROVED</strong>!</p>

    <div class="details">
      <h3>Loan Details:</h3>
      <p><strong>Sanctioned Amount:</strong> ₹{{.LoanAmount}}</p>
      <p><strong>Interest Rate:</strong> {{.InterestRate}}% per annum</p>
      <p><strong>Tenure:</strong> {{.TenureMonths}} months</p>
      <p><strong>Monthly EMI:</strong> ₹{{.EMI}}</p>
      <p><strong>Processing Fee:</strong> ₹{{.ProcessingFee}} (2% of loan amount)</p>
    </div>

    <p>This sanction is valid for <strong>30 days</strong> from the date of this letter. To proceed with the disbursal, please accept this offer in the chat interface.</p>

    <p><strong>Next Steps:</strong></p>
    <ul>
      <li>Accept the offer in the chat</li>
      <li>Complete KYC verification (if pending)</li>
      <li>Sign the loan agreement digitally</li>
      <li>Receive instant disbursal to your account</li>
    </ul>

    <div class="signature">
      <p><strong>Authorized Signatory</strong><br>
      SILK Finance Limited<br>
      Registration No: U65999MH2020PTC123456</p>
    </div>

    <div class="footer">
      <p>This is a computer-generated document and does not require a physical signature.</p>
      <p>SILK Finance Ltd. | Registered Office: Mumbai, India | CIN: U65999MH2020PTC123456</p>
    </div>
  </div>
</body>
</html>
`))
