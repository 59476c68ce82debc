// silk/controllers/sanction.go
package controllers

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"silk/silk/services/sanction"
	"silk/silk/sources/psql/dao"
	"silk/silk/types"
	"silk/silk/utils/logging"
)

// LetterStore is the object-storage collaborator for rendered letters.
type LetterStore interface {
	UploadLetter(ctx context.Context, referenceNo, ext string, data []byte) (string, error)
}

type SanctionController struct {
	convDAO    *dao.ConversationDAO
	profileDAO *dao.CustomerProfileDAO
	letters    LetterStore
	renderPDF  bool
}

func NewSanctionController(convDAO *dao.ConversationDAO, profileDAO *dao.CustomerProfileDAO, letters LetterStore, renderPDF bool) *SanctionController {
	return &SanctionController{
		convDAO:    convDAO,
		profileDAO: profileDAO,
		letters:    letters,
		renderPDF:  renderPDF,
	}
}

type SanctionResponse struct {
	Success        bool   `json:"success"`
	SanctionLetter string `json:"sanctionLetter"`
	ReferenceNo    string `json:"referenceNo"`
}

// Generate renders the approval letter for the caller, records the outcome
// on the conversation, and archives the document. Storage and status
// updates are best-effort: the customer still gets their letter if either
// collaborator is down.
func (c *SanctionController) Generate(ctx context.Context, userID uuid.UUID, email string, req types.SanctionRequest) (*SanctionResponse, error) {
	defer logging.LogDuration(ctx, "sanction_generate")()

	// first-time customers get a default profile so the letter carries the
	// same derived name the insights endpoint would create
	customerName := ""
	if c.profileDAO != nil {
		profile, err := c.profileDAO.GetOrCreate(ctx, userID, email)
		if err != nil {
			logging.ErrorLogger.Error("failed to fetch customer profile", zap.Error(err))
		} else if profile != nil {
			customerName = profile.FullName
		}
	}

	letter := sanction.NewLetter(customerName, req.LoanAmount, req.InterestRate, req.Tenure, req.EMI)
	html, err := sanction.Render(letter)
	if err != nil {
		return nil, err
	}

	if c.convDAO != nil && req.ConversationID != "" {
		if convID, parseErr := uuid.Parse(req.ConversationID); parseErr == nil {
			if err := c.convDAO.MarkSanctioned(ctx, convID, req.LoanAmount); err != nil {
				logging.ErrorLogger.Error("failed to mark conversation sanctioned", zap.Error(err))
			}
		} else {
			logging.ErrorLogger.Error("malformed conversation id",
				zap.String("conversation_id", req.ConversationID), zap.Error(parseErr))
		}
	}

	c.archive(ctx, letter.ReferenceNo, html)

	logging.AppLogger.Info("sanction letter generated",
		zap.String("reference_no", letter.ReferenceNo),
		zap.Float64("loan_amount", req.LoanAmount),
	)
	return &SanctionResponse{
		Success:        true,
		SanctionLetter: html,
		ReferenceNo:    letter.ReferenceNo,
	}, nil
}

func (c *SanctionController) archive(ctx context.Context, referenceNo, html string) {
	if c.letters == nil {
		return
	}
	if _, err := c.letters.UploadLetter(ctx, referenceNo, "html", []byte(html)); err != nil {
		logging.ErrorLogger.Error("failed to archive sanction letter", zap.Error(err))
	}
	if !c.renderPDF {
		return
	}
	pdf, err := sanction.RenderPDF(html)
	if err != nil {
		logging.ErrorLogger.Error("failed to render sanction PDF", zap.Error(err))
		return
	}
	if _, err := c.letters.UploadLetter(ctx, referenceNo, "pdf", pdf); err != nil {
		logging.ErrorLogger.Error("failed to archive sanction PDF", zap.Error(err))
	}
}
