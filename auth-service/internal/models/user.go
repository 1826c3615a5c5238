package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleCitizen     Role = "citizen"
	RoleInstitution Role = "institution"
	RoleAdmin       Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleInstitution, RoleAdmin:
		return true
	}
	return false
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// User is the owning model of the users collection. The complaint service
// reads the same documents, so the bson names are shared.
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	Password          string               `bson:"password" json:"-"`
	Role              Role                 `bson:"role" json:"role"`
	Phone             string               `bson:"phone,omitempty" json:"phone,omitempty"`
	NationalID        string               `bson:"nationalId,omitempty" json:"nationalId,omitempty"`
	Address           string               `bson:"address,omitempty" json:"address,omitempty"`
	Department        string               `bson:"department,omitempty" json:"department,omitempty"`
	InstitutionType   string               `bson:"institutionType,omitempty" json:"institutionType,omitempty"`
	IsApproved        bool                 `bson:"isApproved" json:"isApproved"`
	ApprovalStatus    ApprovalStatus       `bson:"approvalStatus" json:"approvalStatus"`
	RejectionReason   string               `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	HandledCategories []primitive.ObjectID `bson:"handledCategories,omitempty" json:"handledCategories,omitempty"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// SetApproval keeps isApproved and approvalStatus in step.
func (u *User) SetApproval(status ApprovalStatus) {
	u.ApprovalStatus = status
	u.IsApproved = status == ApprovalApproved
}

// UserFilter narrows admin listings. Zero fields match everything.
type UserFilter struct {
	Role           Role
	ApprovalStatus ApprovalStatus
}

// UserUpdate carries the fields an update may change; nil means unchanged.
type UserUpdate struct {
	Name              *string
	Email             *string
	Password          *string
	Role              *Role
	Phone             *string
	NationalID        *string
	Address           *string
	Department        *string
	InstitutionType   *string
	ApprovalStatus    *ApprovalStatus
	RejectionReason   *string
	HandledCategories *[]primitive.ObjectID
}

func (u UserUpdate) Empty() bool {
	return u == UserUpdate{}
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

type UserPage struct {
	Count      int        `json:"count"`
	Total      int64      `json:"total"`
	TotalPages int64      `json:"totalPages"`
	Pagination Pagination `json:"pagination"`
	Data       []User     `json:"data"`
}
