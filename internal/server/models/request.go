package models

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// ManagementRequest asks for promotion to an elevated role. It leaves
// StatusPending exactly once.
type ManagementRequest struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	RequestedRole Role          `json:"requested_role"`
	Status        RequestStatus `json:"status"`
	ApprovedBy    *string       `json:"approved_by,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
