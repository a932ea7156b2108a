// Package mockdata synthesizes internally consistent admin records that stand
// in for the brokerage backend.
package mockdata

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Dataset bundles one generated copy of every admin collection.
type Dataset struct {
	Users        []models.User          `json:"users"`
	Transactions []models.Transaction   `json:"transactions"`
	KycRequests  []models.KycRequest    `json:"kycRequests"`
	Tickets      []models.SupportTicket `json:"tickets"`
}

// Generator produces mock records. It is not safe for concurrent use.
type Generator struct {
	rand      *rand.Rand
	now       func() time.Time
	fragments fragments
}

type Option func(*Generator)

// WithSeed makes generation reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rand = rand.New(rand.NewSource(seed)) }
}

func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rand = r }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New returns a Generator seeded from the wall clock unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		fragments: defaultFragments(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Dataset generates every collection. It respects context cancellation
// between collections.
func (g *Generator) Dataset(ctx context.Context, counts Counts) (Dataset, error) {
	var (
		ds  Dataset
		err error
	)
	if ds.Users, err = g.Users(counts.Users); err != nil {
		return Dataset{}, err
	}
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	if ds.Transactions, err = g.Transactions(counts.Transactions); err != nil {
		return Dataset{}, err
	}
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	if ds.KycRequests, err = g.KycRequests(counts.KycRequests); err != nil {
		return Dataset{}, err
	}
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	if ds.Tickets, err = g.SupportTickets(counts.Tickets); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func requireCount(field string, n int) error {
	if n <= 0 {
		return models.NewValidationError(field, "count must be a positive integer")
	}
	return nil
}

// Users generates n users with ids user-1..user-n.
func (g *Generator) Users(n int) ([]models.User, error) {
	if err := requireCount("users", n); err != nil {
		return nil, err
	}
	now := g.now().UTC()
	users := make([]models.User, n)
	for i := range users {
		idx := i + 1
		ref := g.userRef(idx)
		status := pick(g.rand, domain.UserStatuses)
		createdAt := now.Add(-time.Duration(g.rand.Intn(365*24)+1) * time.Hour)
		updatedAt := between(g.rand, createdAt, now)

		u := models.User{
			ID:               ref.ID,
			FullName:         ref.FullName,
			Email:            ref.Email,
			Phone:            g.randomPhone(),
			Country:          pick(g.rand, g.fragments.countries),
			AccountNumber:    fmt.Sprintf("ACC%010d", g.rand.Int63n(10_000_000_000)),
			Status:           status,
			UserType:         pick(g.rand, domain.UserTypes),
			Balance:          g.randomAmount(0, 250_000),
			CreatedAt:        createdAt,
			UpdatedAt:        updatedAt,
			KycVerified:      status != domain.UserStatusPendingVerification && g.rand.Float64() < 0.8,
			LastLogin:        between(g.rand, createdAt, now),
			EmailVerified:    status != domain.UserStatusPendingVerification || g.rand.Intn(2) == 0,
			TwoFactorEnabled: g.rand.Intn(2) == 0,
		}
		if idx > 1 && g.rand.Float64() < 0.2 {
			u.ReferredBy = models.StringPtr(userID(1 + g.rand.Intn(idx-1)))
		}
		users[i] = u
	}
	return users, nil
}

// Transactions generates n transactions with ids txn-1..txn-n.
func (g *Generator) Transactions(n int) ([]models.Transaction, error) {
	if err := requireCount("transactions", n); err != nil {
		return nil, err
	}
	now := g.now().UTC()
	txs := make([]models.Transaction, n)
	for i := range txs {
		txType := pick(g.rand, domain.TransactionTypes)
		status := pick(g.rand, domain.TransactionStatuses)
		method := pick(g.rand, domain.PaymentMethods)
		user := g.userRef(1 + g.rand.Intn(UserPoolSize))

		currency := pick(g.rand, []string{"USD", "EUR", "GBP"})
		if method == domain.PaymentCrypto {
			currency = "USDT"
		}
		amount := domain.NewMoney(g.randomAmount(10, 10_000), currency)
		date := now.Add(-time.Duration(g.rand.Intn(90*24*60)+1) * time.Minute)

		tx := models.Transaction{
			ID:            fmt.Sprintf("txn-%d", i+1),
			Type:          txType,
			Status:        status,
			Amount:        amount.Amount,
			Currency:      currency,
			Fee:           domain.FeeFor(amount, method).Amount,
			Date:          date,
			Description:   describeTransaction(txType, method),
			PaymentMethod: method,
			User:          user,
			Details:       g.paymentDetails(method, user),
		}

		switch status {
		case domain.TxStatusCompleted:
			settled := date.Add(time.Duration(g.rand.Intn(240)+1) * time.Minute)
			tx.UpdatedAt = models.TimePtr(settled)
			tx.CompletedAt = models.TimePtr(settled)
		case domain.TxStatusFailed, domain.TxStatusRejected:
			tx.UpdatedAt = models.TimePtr(date.Add(time.Duration(g.rand.Intn(240)+1) * time.Minute))
			tx.RejectionReason = models.StringPtr(pick(g.rand, g.fragments.rejections))
		}
		txs[i] = tx
	}
	return txs, nil
}

// KycRequests generates n KYC requests with ids kyc-1..kyc-n.
func (g *Generator) KycRequests(n int) ([]models.KycRequest, error) {
	if err := requireCount("kycRequests", n); err != nil {
		return nil, err
	}
	now := g.now().UTC()
	out := make([]models.KycRequest, n)
	for i := range out {
		id := fmt.Sprintf("kyc-%d", i+1)
		status := pick(g.rand, domain.KycStatuses)
		submittedAt := now.Add(-time.Duration(g.rand.Intn(60*24)+1) * time.Hour)

		req := models.KycRequest{
			ID:          id,
			User:        g.userRef(1 + g.rand.Intn(UserPoolSize)),
			Status:      status,
			SubmittedAt: submittedAt,
			UpdatedAt:   submittedAt,
			Documents:   g.kycDocuments(id, status),
			Information: g.kycInformation(),
		}
		if status != domain.KycStatusPending {
			req.UpdatedAt = between(g.rand, submittedAt, now)
		}
		switch status {
		case domain.KycStatusApproved:
			req.ApprovedBy = models.StringPtr(pick(g.rand, g.fragments.admins))
		case domain.KycStatusRejected:
			req.RejectedBy = models.StringPtr(pick(g.rand, g.fragments.admins))
			req.Notes = models.StringPtr(pick(g.rand, g.fragments.kycRejects))
		}
		out[i] = req
	}
	return out, nil
}

// SupportTickets generates n tickets with ids ticket-1..ticket-n.
func (g *Generator) SupportTickets(n int) ([]models.SupportTicket, error) {
	if err := requireCount("tickets", n); err != nil {
		return nil, err
	}
	now := g.now().UTC()
	out := make([]models.SupportTicket, n)
	for i := range out {
		category := pick(g.rand, g.fragments.categories)
		status := pick(g.rand, domain.TicketStatuses)
		user := g.userRef(1 + g.rand.Intn(UserPoolSize))
		createdAt := now.Add(-time.Duration(g.rand.Intn(30*24*60)+60) * time.Minute)
		subject := pick(g.rand, g.fragments.subjects[category])

		t := models.SupportTicket{
			ID:        fmt.Sprintf("ticket-%d", i+1),
			Subject:   subject,
			Category:  category,
			Content:   fmt.Sprintf("Hello, %s. Please help me with this as soon as possible.", strings.ToLower(subject)),
			User:      user,
			Status:    status,
			Priority:  pick(g.rand, domain.TicketPriorities),
			CreatedAt: createdAt,
			Replies:   []models.Reply{},
		}

		last := createdAt
		if status != domain.TicketStatusOpen {
			admin := pick(g.rand, g.fragments.admins)
			t.AssignedTo = models.StringPtr(admin)
			t.Replies, last = g.replies(createdAt, admin, user)
			t.StatusHistory, last = g.history(status, last, admin)
		}
		if status == domain.TicketStatusResolved || status == domain.TicketStatusClosed {
			t.ResolutionNote = models.StringPtr("Issue addressed, customer confirmed.")
		}
		t.UpdatedAt = last
		t.LastActivity = last
		out[i] = t
	}
	return out, nil
}

// replies builds 1-3 replies in ascending time, alternating admin and user
// authorship starting with admin.
func (g *Generator) replies(after time.Time, adminID string, user models.UserRef) ([]models.Reply, time.Time) {
	count := 1 + g.rand.Intn(3)
	out := make([]models.Reply, 0, count)
	at := after
	for i := 0; i < count; i++ {
		at = at.Add(time.Duration(g.rand.Intn(180)+1) * time.Minute)
		sender := models.Sender{ID: adminID, Name: "Support Agent", Role: domain.SenderAdmin}
		content := "Thanks for reaching out, we are looking into this."
		if i%2 == 1 {
			sender = models.Sender{ID: user.ID, Name: user.FullName, Role: domain.SenderUser}
			content = "Thank you, waiting for an update."
		}
		out = append(out, models.Reply{
			ID:        ulid.MustNew(ulid.Timestamp(at), g.rand).String(),
			Content:   content,
			CreatedAt: at,
			Sender:    sender,
		})
	}
	return out, at
}

var ticketPaths = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusInProgress: {domain.TicketStatusInProgress},
	domain.TicketStatusResponded:  {domain.TicketStatusInProgress, domain.TicketStatusResponded},
	domain.TicketStatusResolved:   {domain.TicketStatusInProgress, domain.TicketStatusResponded, domain.TicketStatusResolved},
	domain.TicketStatusClosed:     {domain.TicketStatusInProgress, domain.TicketStatusResponded, domain.TicketStatusResolved, domain.TicketStatusClosed},
}

// history walks the transition table from open to status.
func (g *Generator) history(status domain.TicketStatus, after time.Time, adminID string) ([]models.StatusChange, time.Time) {
	path := ticketPaths[status]
	out := make([]models.StatusChange, 0, len(path))
	from := domain.TicketStatusOpen
	at := after
	for _, to := range path {
		at = at.Add(time.Duration(g.rand.Intn(60)+1) * time.Minute)
		out = append(out, models.StatusChange{From: from, To: to, UpdatedAt: at, UpdatedBy: adminID})
		from = to
	}
	return out, at
}

func (g *Generator) kycDocuments(id string, status domain.KycStatus) []models.KycDocument {
	identity := pick(g.rand, []domain.DocumentType{domain.DocumentPassport, domain.DocumentNationalID, domain.DocumentDriversLicense})
	types := []domain.DocumentType{identity}
	if status != domain.KycStatusWaitingForDocuments {
		types = append(types, domain.DocumentProofOfAddress)
		if g.rand.Intn(2) == 0 {
			types = append(types, domain.DocumentSelfie)
		}
	}

	docs := make([]models.KycDocument, len(types))
	rejected := g.rand.Intn(len(types))
	for i, typ := range types {
		docStatus := domain.DocumentStatusPending
		switch status {
		case domain.KycStatusApproved:
			docStatus = domain.DocumentStatusVerified
		case domain.KycStatusRejected:
			docStatus = domain.DocumentStatusVerified
			if i == rejected {
				docStatus = domain.DocumentStatusRejected
			}
		}
		docs[i] = models.KycDocument{
			Type:   typ,
			Status: docStatus,
			URL:    fmt.Sprintf("https://storage.example.com/kyc/%s/%s.jpg", id, typ),
		}
	}
	return docs
}

func (g *Generator) kycInformation() models.KycInformation {
	dob := time.Date(1955+g.rand.Intn(50), time.Month(1+g.rand.Intn(12)), 1+g.rand.Intn(28), 0, 0, 0, 0, time.UTC)
	return models.KycInformation{
		Address: fmt.Sprintf("%d %s %s", g.rand.Intn(9999)+1,
			pick(g.rand, g.fragments.streetNames), pick(g.rand, g.fragments.streetSuffix)),
		City:        pick(g.rand, g.fragments.cities),
		Country:     pick(g.rand, g.fragments.countries),
		PostalCode:  fmt.Sprintf("%05d", g.rand.Intn(100000)),
		DateOfBirth: dob.Format(time.DateOnly),
	}
}

func (g *Generator) paymentDetails(method domain.PaymentMethod, user models.UserRef) models.PaymentDetails {
	switch method {
	case domain.PaymentBankTransfer:
		return models.BankTransfer(models.BankTransferDetails{
			BankName:      pick(g.rand, g.fragments.banks),
			AccountNumber: fmt.Sprintf("****%04d", g.rand.Intn(10000)),
			Reference:     fmt.Sprintf("REF-%06d", g.rand.Intn(1_000_000)),
		})
	case domain.PaymentCreditCard:
		return models.Card(models.CardDetails{
			Brand:       pick(g.rand, g.fragments.cardBrands),
			Last4:       fmt.Sprintf("%04d", g.rand.Intn(10000)),
			ExpiryMonth: 1 + g.rand.Intn(12),
			ExpiryYear:  g.now().Year() + 1 + g.rand.Intn(5),
		})
	case domain.PaymentPayPal:
		return models.PayPal(models.PayPalDetails{
			Email:         user.Email,
			TransactionID: fmt.Sprintf("PP-%010d", g.rand.Int63n(10_000_000_000)),
		})
	default:
		return models.Crypto(models.CryptoDetails{
			Network:       pick(g.rand, g.fragments.networks),
			WalletAddress: "0x" + g.randomHex(40),
			TxHash:        "0x" + g.randomHex(64),
		})
	}
}

// userRef derives a stable reference for a pool index, so every collection
// names user-n the same way.
func (g *Generator) userRef(idx int) models.UserRef {
	f := g.fragments
	first := f.first[(idx*7)%len(f.first)]
	last := f.last[(idx*5)%len(f.last)]
	return models.UserRef{
		ID:       userID(idx),
		FullName: first + " " + last,
		Email:    fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), idx, f.domains[idx%len(f.domains)]),
	}
}

func userID(idx int) string { return fmt.Sprintf("user-%d", idx) }

func (g *Generator) randomPhone() string {
	return fmt.Sprintf("+1%03d%03d%04d", g.rand.Intn(900)+100, g.rand.Intn(900)+100, g.rand.Intn(10000))
}

// randomAmount returns a 2dp amount in [lo, hi).
func (g *Generator) randomAmount(lo, hi int64) decimal.Decimal {
	cents := lo*100 + g.rand.Int63n((hi-lo)*100)
	return decimal.New(cents, -2)
}

func (g *Generator) randomHex(n int) string {
	const digits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[g.rand.Intn(len(digits))]
	}
	return string(b)
}

func describeTransaction(t domain.TransactionType, m domain.PaymentMethod) string {
	method := strings.ReplaceAll(string(m), "_", " ")
	switch t {
	case domain.TxTypeDeposit:
		return "Deposit via " + method
	case domain.TxTypeWithdrawal:
		return "Withdrawal to " + method
	case domain.TxTypeInvestment:
		return "Investment plan purchase"
	case domain.TxTypeTransfer:
		return "Internal transfer"
	default:
		return "Platform fee"
	}
}

func pick[T any](r *rand.Rand, values []T) T {
	return values[r.Intn(len(values))]
}

func between(r *rand.Rand, from, to time.Time) time.Time {
	span := to.Sub(from)
	if span <= 0 {
		return from
	}
	return from.Add(time.Duration(r.Int63n(int64(span))))
}
