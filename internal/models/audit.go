package models

import "time"

// AuditEntry is one immutable record of an admin mutation.
type AuditEntry struct {
	ID       string    `json:"id"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entityId"`
	Actor    string    `json:"actor"`
	Action   string    `json:"action"`
	From     string    `json:"from,omitempty"`
	To       string    `json:"to,omitempty"`
	Note     string    `json:"note,omitempty"`
	At       time.Time `json:"at"`
}
