package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Role string

const (
	RoleCitizen     Role = "citizen"
	RoleInstitution Role = "institution"
	RoleAdmin       Role = "admin"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// User is the read side of the users collection owned by the auth service.
type User struct {
	ID                primitive.ObjectID   `bson:"_id"`
	Name              string               `bson:"name"`
	Email             string               `bson:"email"`
	Role              Role                 `bson:"role"`
	Department        string               `bson:"department,omitempty"`
	ApprovalStatus    ApprovalStatus       `bson:"approvalStatus,omitempty"`
	HandledCategories []primitive.ObjectID `bson:"handledCategories,omitempty"`
}

// ApprovedInstitution reports whether the user can receive assignments.
func (u *User) ApprovedInstitution() bool {
	return u.Role == RoleInstitution && u.ApprovalStatus == ApprovalApproved
}

func (u *User) Principal() Principal {
	return Principal{
		ID:                u.ID,
		Role:              u.Role,
		Name:              u.Name,
		Email:             u.Email,
		Department:        u.Department,
		ApprovalStatus:    u.ApprovalStatus,
		HandledCategories: u.HandledCategories,
	}
}

// Principal is the authenticated caller of a complaint operation.
type Principal struct {
	ID                primitive.ObjectID
	Role              Role
	Name              string
	Email             string
	Department        string
	ApprovalStatus    ApprovalStatus
	HandledCategories []primitive.ObjectID
}

func (p Principal) Is(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Category is the read side of the categories collection owned by the reference service.
type Category struct {
	ID         primitive.ObjectID `bson:"_id"`
	Name       string             `bson:"name"`
	Department string             `bson:"department,omitempty"`
	IsActive   bool               `bson:"isActive"`
}
