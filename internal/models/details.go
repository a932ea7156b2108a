package models

import (
	"fmt"

	"github.com/ayo6706/brokerage-admin/internal/domain"
)

type BankTransferDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"` // masked
	Reference     string `json:"reference"`
}

type CardDetails struct {
	Brand       string `json:"brand"`
	Last4       string `json:"last4"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`
}

type PayPalDetails struct {
	Email         string `json:"email"`
	TransactionID string `json:"transactionId"`
}

type CryptoDetails struct {
	Network       string `json:"network"`
	WalletAddress string `json:"walletAddress"`
	TxHash        string `json:"txHash"`
}

// PaymentDetails is a tagged union keyed by Method: exactly the variant
// matching Method is non-nil.
type PaymentDetails struct {
	Method       domain.PaymentMethod `json:"method"`
	BankTransfer *BankTransferDetails `json:"bankTransfer,omitempty"`
	Card         *CardDetails         `json:"card,omitempty"`
	PayPal       *PayPalDetails       `json:"paypal,omitempty"`
	Crypto       *CryptoDetails       `json:"crypto,omitempty"`
}

func BankTransfer(d BankTransferDetails) PaymentDetails {
	return PaymentDetails{Method: domain.PaymentBankTransfer, BankTransfer: &d}
}

func Card(d CardDetails) PaymentDetails {
	return PaymentDetails{Method: domain.PaymentCreditCard, Card: &d}
}

func PayPal(d PayPalDetails) PaymentDetails {
	return PaymentDetails{Method: domain.PaymentPayPal, PayPal: &d}
}

func Crypto(d CryptoDetails) PaymentDetails {
	return PaymentDetails{Method: domain.PaymentCrypto, Crypto: &d}
}

// Validate checks that the populated variant matches the tag.
func (d PaymentDetails) Validate() error {
	set := 0
	for _, present := range []bool{d.BankTransfer != nil, d.Card != nil, d.PayPal != nil, d.Crypto != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return NewValidationError("details", fmt.Sprintf("expected exactly one payment variant, got %d", set))
	}

	var ok bool
	switch d.Method {
	case domain.PaymentBankTransfer:
		ok = d.BankTransfer != nil
	case domain.PaymentCreditCard:
		ok = d.Card != nil
	case domain.PaymentPayPal:
		ok = d.PayPal != nil
	case domain.PaymentCrypto:
		ok = d.Crypto != nil
	default:
		return NewValidationError("details.method", fmt.Sprintf("unknown payment method %q", d.Method))
	}
	if !ok {
		return NewValidationError("details", fmt.Sprintf("variant does not match method %q", d.Method))
	}
	return nil
}

func (d PaymentDetails) Clone() PaymentDetails {
	out := PaymentDetails{Method: d.Method}
	if d.BankTransfer != nil {
		v := *d.BankTransfer
		out.BankTransfer = &v
	}
	if d.Card != nil {
		v := *d.Card
		out.Card = &v
	}
	if d.PayPal != nil {
		v := *d.PayPal
		out.PayPal = &v
	}
	if d.Crypto != nil {
		v := *d.Crypto
		out.Crypto = &v
	}
	return out
}
