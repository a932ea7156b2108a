package domain

// UnknownBucket is the rendering bucket for status values outside an
// entity's enumeration.
const UnknownBucket = "unknown"

// UserStatus is the account lifecycle state of a platform user.
type UserStatus string

const (
	UserStatusActive              UserStatus = "active"
	UserStatusInactive            UserStatus = "inactive"
	UserStatusSuspended           UserStatus = "suspended"
	UserStatusPendingVerification UserStatus = "pending_verification"
)

// UserStatuses lists every defined user status.
var UserStatuses = []UserStatus{
	UserStatusActive,
	UserStatusInactive,
	UserStatusSuspended,
	UserStatusPendingVerification,
}

func (s UserStatus) Valid() bool { return contains(UserStatuses, s) }

// Bucket returns the status itself, or UnknownBucket when it is not defined.
func (s UserStatus) Bucket() string { return bucket(s.Valid(), string(s)) }

// UserType is the commercial tier of a user.
type UserType string

const (
	UserTypeBasic   UserType = "basic"
	UserTypePremium UserType = "premium"
	UserTypeVIP     UserType = "vip"
)

var UserTypes = []UserType{UserTypeBasic, UserTypePremium, UserTypeVIP}

func (t UserType) Valid() bool { return contains(UserTypes, t) }

// TransactionType classifies money movement.
type TransactionType string

const (
	TxTypeDeposit    TransactionType = "deposit"
	TxTypeWithdrawal TransactionType = "withdrawal"
	TxTypeInvestment TransactionType = "investment"
	TxTypeTransfer   TransactionType = "transfer"
	TxTypeFee        TransactionType = "fee"
)

var TransactionTypes = []TransactionType{
	TxTypeDeposit,
	TxTypeWithdrawal,
	TxTypeInvestment,
	TxTypeTransfer,
	TxTypeFee,
}

func (t TransactionType) Valid() bool { return contains(TransactionTypes, t) }

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusFailed    TransactionStatus = "failed"
	TxStatusRejected  TransactionStatus = "rejected"
)

var TransactionStatuses = []TransactionStatus{
	TxStatusPending,
	TxStatusCompleted,
	TxStatusFailed,
	TxStatusRejected,
}

func (s TransactionStatus) Valid() bool { return contains(TransactionStatuses, s) }

func (s TransactionStatus) Bucket() string { return bucket(s.Valid(), string(s)) }

// IsTerminal reports whether no further transition is possible.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TxStatusCompleted, TxStatusRejected, TxStatusFailed:
		return true
	default:
		return false
	}
}

// PaymentMethod identifies the rail a transaction used. It also keys the
// variant of a transaction's payment details.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentPayPal       PaymentMethod = "paypal"
	PaymentCrypto       PaymentMethod = "crypto"
)

var PaymentMethods = []PaymentMethod{
	PaymentBankTransfer,
	PaymentCreditCard,
	PaymentPayPal,
	PaymentCrypto,
}

func (m PaymentMethod) Valid() bool { return contains(PaymentMethods, m) }

// KycStatus is the review state of a KYC request.
type KycStatus string

const (
	KycStatusPending             KycStatus = "pending"
	KycStatusApproved            KycStatus = "approved"
	KycStatusRejected            KycStatus = "rejected"
	KycStatusWaitingForDocuments KycStatus = "waiting_for_documents"
)

var KycStatuses = []KycStatus{
	KycStatusPending,
	KycStatusApproved,
	KycStatusRejected,
	KycStatusWaitingForDocuments,
}

func (s KycStatus) Valid() bool { return contains(KycStatuses, s) }

func (s KycStatus) Bucket() string { return bucket(s.Valid(), string(s)) }

func (s KycStatus) IsTerminal() bool {
	return s == KycStatusApproved || s == KycStatusRejected
}

// DocumentType is the kind of evidence attached to a KYC request.
type DocumentType string

const (
	DocumentPassport       DocumentType = "passport"
	DocumentNationalID     DocumentType = "national_id"
	DocumentDriversLicense DocumentType = "drivers_license"
	DocumentProofOfAddress DocumentType = "proof_of_address"
	DocumentSelfie         DocumentType = "selfie"
)

var DocumentTypes = []DocumentType{
	DocumentPassport,
	DocumentNationalID,
	DocumentDriversLicense,
	DocumentProofOfAddress,
	DocumentSelfie,
}

func (t DocumentType) Valid() bool { return contains(DocumentTypes, t) }

// DocumentStatus is the verification state of one KYC document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

var DocumentStatuses = []DocumentStatus{DocumentStatusPending, DocumentStatusVerified, DocumentStatusRejected}

func (s DocumentStatus) Valid() bool { return contains(DocumentStatuses, s) }

// TicketStatus is the support workflow state of a ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResponded  TicketStatus = "responded"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResponded,
	TicketStatusResolved,
	TicketStatusClosed,
}

func (s TicketStatus) Valid() bool { return contains(TicketStatuses, s) }

func (s TicketStatus) Bucket() string { return bucket(s.Valid(), string(s)) }

// AcceptsReplies reports whether the conversation on a ticket is still open.
func (s TicketStatus) AcceptsReplies() bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress || s == TicketStatusResponded
}

// TicketPriority orders tickets for triage.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

var TicketPriorities = []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p TicketPriority) Valid() bool { return contains(TicketPriorities, p) }

// SenderRole identifies who wrote a ticket reply.
type SenderRole string

const (
	SenderAdmin SenderRole = "admin"
	SenderUser  SenderRole = "user"
)

func (r SenderRole) Valid() bool { return r == SenderAdmin || r == SenderUser }

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func bucket(valid bool, value string) string {
	if !valid {
		return UnknownBucket
	}
	return value
}
