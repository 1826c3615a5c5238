package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransition reports whether a complaint in status from may be moved to
// status to. The relation is total: any status may follow any other,
// including leaving rejected and re-applying the current status.
func CanTransition(from, to Status) bool {
	return from.Valid() && to.Valid()
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type StatusEntry struct {
	Status    Status             `bson:"status" json:"status"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	UpdatedBy primitive.ObjectID `bson:"updatedBy" json:"updatedBy"`
	Comment   string             `bson:"comment" json:"comment"`
}

type Response struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	From      primitive.ObjectID `bson:"from" json:"from"`
	Message   string             `bson:"message" json:"message"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Complaint is the stored document. AssignedTo is nil while unassigned and
// is persisted as null so that "unassigned" filters match it.
type Complaint struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ComplaintID   string              `bson:"complaintId" json:"complaintId"`
	Title         string              `bson:"title" json:"title"`
	Description   string              `bson:"description" json:"description"`
	Category      primitive.ObjectID  `bson:"category" json:"category"`
	Province      string              `bson:"province" json:"province"`
	District      string              `bson:"district" json:"district"`
	Sector        string              `bson:"sector" json:"sector"`
	Cell          string              `bson:"cell,omitempty" json:"cell,omitempty"`
	Village       string              `bson:"village,omitempty" json:"village,omitempty"`
	Status        Status              `bson:"status" json:"status"`
	Priority      Priority            `bson:"priority" json:"priority"`
	Citizen       primitive.ObjectID  `bson:"citizen" json:"citizen"`
	AssignedTo    *primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	ImageURL      string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	NationalID    string              `bson:"nationalId,omitempty" json:"nationalId,omitempty"`
	Phone         string              `bson:"phone,omitempty" json:"phone,omitempty"`
	StatusHistory []StatusEntry       `bson:"statusHistory" json:"statusHistory"`
	Responses     []Response          `bson:"responses" json:"responses"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// LatestStatus returns the last history entry, if any.
func (c *Complaint) LatestStatus() (StatusEntry, bool) {
	if len(c.StatusHistory) == 0 {
		return StatusEntry{}, false
	}
	return c.StatusHistory[len(c.StatusHistory)-1], true
}

const codePrefix = "CMP"

// CodePrefix is the shared prefix of every code allocated in year, e.g. "CMP-24-".
func CodePrefix(year int) string {
	return fmt.Sprintf("%s-%02d-", codePrefix, year%100)
}

// FormatComplaintCode renders the n-th code of year, e.g. CMP-24-00007.
func FormatComplaintCode(year int, n int64) string {
	return fmt.Sprintf("%s%05d", CodePrefix(year), n)
}

// ParseComplaintSequence extracts the numeric suffix of a code with the given prefix.
func ParseComplaintSequence(code, prefix string) (int64, bool) {
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(code, prefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
