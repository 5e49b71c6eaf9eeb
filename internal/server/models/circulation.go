package models

import "time"

// BookIssue is one loan. ReturnDate is set once, by the return operation,
// together with FineAmount.
type BookIssue struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book_id"`
	MemberID   string     `json:"member_id"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	FineAmount int64      `json:"fine_amount"`
}

// Returned reports whether the loan has been closed.
func (i *BookIssue) Returned() bool {
	return i.ReturnDate != nil
}

// OverdueIssue is a BookIssue joined with what a reminder needs.
type OverdueIssue struct {
	BookIssue
	BookTitle   string `json:"book_title"`
	MemberName  string `json:"member_name"`
	MemberEmail string `json:"member_email"`
}
