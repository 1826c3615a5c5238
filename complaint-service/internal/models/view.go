package models

import "time"

const (
	UncategorizedName      = "Uncategorized"
	UnknownCitizenName     = "Unknown citizen"
	UnknownInstitutionName = "Unknown institution"
	UnknownUserName        = "Unknown user"
)

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type InstitutionRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type StatusEntryView struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updatedBy"`
	Comment   string    `json:"comment"`
}

type ResponseView struct {
	ID        string    `json:"id"`
	From      UserRef   `json:"from"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ComplaintView is the outward shape of a complaint. Every scalar is present
// and every reference is either resolved or replaced by a placeholder.
// AssignedTo is null only for unassigned complaints.
type ComplaintView struct {
	ID            string            `json:"id"`
	ComplaintID   string            `json:"complaintId"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      CategoryRef       `json:"category"`
	Province      string            `json:"province"`
	District      string            `json:"district"`
	Sector        string            `json:"sector"`
	Cell          string            `json:"cell"`
	Village       string            `json:"village"`
	Status        Status            `json:"status"`
	Priority      Priority          `json:"priority"`
	Citizen       UserRef           `json:"citizen"`
	AssignedTo    *InstitutionRef   `json:"assignedTo"`
	ImageURL      string            `json:"imageUrl"`
	NationalID    string            `json:"nationalId"`
	Phone         string            `json:"phone"`
	StatusHistory []StatusEntryView `json:"statusHistory"`
	Responses     []ResponseView    `json:"responses"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

type ComplaintPage struct {
	Count      int             `json:"count"`
	Total      int64           `json:"total"`
	TotalPages int64           `json:"totalPages"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Pagination Pagination      `json:"pagination"`
	Data       []ComplaintView `json:"data"`
}

type Stats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Rejected   int64 `json:"rejected"`
}
