// Package fixture holds a small hand-written dataset shared by tests.
// txn-3, kyc-3 reference user-77, which does not exist.
package fixture

import (
	"time"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/mockdata"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/shopspring/decimal"
)

// Now is the fixed clock the fixture records are relative to.
var Now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func Dataset() mockdata.Dataset {
	created := Now.Add(-48 * time.Hour)
	ada := models.UserRef{ID: "user-1", FullName: "Ada Obi", Email: "ada@example.com"}
	ben := models.UserRef{ID: "user-2", FullName: "Ben Cole", Email: "ben@example.com"}
	ghost := models.UserRef{ID: "user-77", FullName: "Gone User", Email: "gone@example.com"}

	return mockdata.Dataset{
		Users: []models.User{
			{ID: ada.ID, FullName: ada.FullName, Email: ada.Email, Country: "Nigeria", Status: domain.UserStatusActive, UserType: domain.UserTypeBasic, Balance: decimal.RequireFromString("100.50"), CreatedAt: created, UpdatedAt: created},
			{ID: ben.ID, FullName: ben.FullName, Email: ben.Email, Country: "Kenya", Status: domain.UserStatusPendingVerification, UserType: domain.UserTypePremium, Balance: decimal.RequireFromString("20"), CreatedAt: created, UpdatedAt: created},
		},
		Transactions: []models.Transaction{
			{ID: "txn-1", Type: domain.TxTypeDeposit, Status: domain.TxStatusPending, Amount: decimal.RequireFromString("250"), Currency: "USD", Date: created, PaymentMethod: domain.PaymentPayPal, User: ada, Details: models.PayPal(models.PayPalDetails{Email: ada.Email, TransactionID: "PP-1"})},
			{ID: "txn-2", Type: domain.TxTypeDeposit, Status: domain.TxStatusCompleted, Amount: decimal.RequireFromString("10"), Currency: "USD", Date: created, PaymentMethod: domain.PaymentPayPal, User: ben, Details: models.PayPal(models.PayPalDetails{Email: ben.Email, TransactionID: "PP-2"}), UpdatedAt: models.TimePtr(created), CompletedAt: models.TimePtr(created)},
			{ID: "txn-3", Type: domain.TxTypeWithdrawal, Status: domain.TxStatusPending, Amount: decimal.RequireFromString("5"), Currency: "EUR", Date: created, PaymentMethod: domain.PaymentPayPal, User: ghost, Details: models.PayPal(models.PayPalDetails{Email: ghost.Email, TransactionID: "PP-3"})},
		},
		KycRequests: []models.KycRequest{
			{ID: "kyc-1", User: ben, Status: domain.KycStatusPending, SubmittedAt: created, UpdatedAt: created, Documents: []models.KycDocument{{Type: domain.DocumentPassport, Status: domain.DocumentStatusPending, URL: "https://docs.example.com/kyc-1/passport.pdf"}}},
			{ID: "kyc-2", User: ada, Status: domain.KycStatusWaitingForDocuments, SubmittedAt: created, UpdatedAt: created, Documents: []models.KycDocument{{Type: domain.DocumentPassport, Status: domain.DocumentStatusRejected, URL: "https://docs.example.com/kyc-2/passport.pdf"}}},
			{ID: "kyc-3", User: ghost, Status: domain.KycStatusPending, SubmittedAt: created, UpdatedAt: created, Documents: []models.KycDocument{{Type: domain.DocumentPassport, Status: domain.DocumentStatusPending, URL: "https://docs.example.com/kyc-3/passport.pdf"}}},
		},
		Tickets: []models.SupportTicket{
			{ID: "ticket-1", Subject: "Cannot withdraw", Category: "withdrawal", User: ada, Status: domain.TicketStatusOpen, Priority: domain.PriorityHigh, CreatedAt: created, UpdatedAt: created, LastActivity: created, Replies: []models.Reply{}},
			{ID: "ticket-2", Subject: "Card declined", Category: "deposit", User: ben, Status: domain.TicketStatusClosed, Priority: domain.PriorityLow, CreatedAt: created, UpdatedAt: created, LastActivity: created, Replies: []models.Reply{}, ResolutionNote: models.StringPtr("done")},
		},
	}
}
