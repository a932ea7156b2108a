package domain

import "sort"

type transitionTable[S ~string] map[S]map[S]struct{}

var userTransitions = transitionTable[UserStatus]{
	UserStatusActive: {
		UserStatusInactive:  {},
		UserStatusSuspended: {},
	},
	UserStatusInactive: {
		UserStatusActive:    {},
		UserStatusSuspended: {},
	},
	UserStatusSuspended: {},
	// pending_verification -> active only happens as a side effect of KYC
	// approval, never as a direct admin transition.
	UserStatusPendingVerification: {},
}

var transactionTransitions = transitionTable[TransactionStatus]{
	TxStatusPending: {
		TxStatusCompleted: {},
		TxStatusRejected:  {},
	},
	TxStatusCompleted: {},
	TxStatusRejected:  {},
	TxStatusFailed:    {},
}

var kycTransitions = transitionTable[KycStatus]{
	KycStatusPending: {
		KycStatusApproved: {},
		KycStatusRejected: {},
	},
	KycStatusWaitingForDocuments: {
		KycStatusPending: {},
	},
	KycStatusApproved: {},
	KycStatusRejected: {},
}

var ticketTransitions = transitionTable[TicketStatus]{
	TicketStatusOpen: {
		TicketStatusInProgress: {},
		TicketStatusResolved:   {},
	},
	TicketStatusInProgress: {
		TicketStatusResponded: {},
		TicketStatusResolved:  {},
	},
	TicketStatusResponded: {
		TicketStatusResolved: {},
	},
	TicketStatusResolved: {
		TicketStatusClosed: {},
		TicketStatusOpen:   {},
	},
	TicketStatusClosed: {
		TicketStatusResolved: {},
		TicketStatusOpen:     {},
	},
}

// allows matches statuses exactly, so a value outside the vocabulary never
// transitions.
func (t transitionTable[S]) allows(current, next S) bool {
	nextStates, ok := t[current]
	if !ok {
		return false
	}
	_, ok = nextStates[next]
	return ok
}

func (t transitionTable[S]) next(current S) []S {
	nextStates := t[current]
	out := make([]S, 0, len(nextStates))
	for s := range nextStates {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanTransitionUser reports whether an admin may move a user between statuses.
func CanTransitionUser(current, next UserStatus) bool {
	return userTransitions.allows(current, next)
}

// CanTransitionTransaction reports whether a transaction may move between statuses.
func CanTransitionTransaction(current, next TransactionStatus) bool {
	return transactionTransitions.allows(current, next)
}

// CanTransitionKyc reports whether a KYC request may move between statuses.
func CanTransitionKyc(current, next KycStatus) bool {
	return kycTransitions.allows(current, next)
}

// CanTransitionTicket reports whether a support ticket may move between statuses.
func CanTransitionTicket(current, next TicketStatus) bool {
	return ticketTransitions.allows(current, next)
}

// NextUserStatuses returns the statuses reachable from current, sorted.
func NextUserStatuses(current UserStatus) []UserStatus { return userTransitions.next(current) }

func NextTransactionStatuses(current TransactionStatus) []TransactionStatus {
	return transactionTransitions.next(current)
}

func NextKycStatuses(current KycStatus) []KycStatus { return kycTransitions.next(current) }

func NextTicketStatuses(current TicketStatus) []TicketStatus { return ticketTransitions.next(current) }
