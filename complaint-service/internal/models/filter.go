package models

import (
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AssignmentMode int

const (
	AssignmentAny AssignmentMode = iota
	AssignmentNone
	AssignmentSome
	AssignmentTo
)

// InstitutionScope limits results to complaints an institution handles:
// those in one of its categories or those assigned to it.
type InstitutionScope struct {
	Institution primitive.ObjectID
	Categories  []primitive.ObjectID
}

// ComplaintFilter is the storage-agnostic description of a complaint query.
// Zero values mean "no constraint".
type ComplaintFilter struct {
	Citizen     *primitive.ObjectID
	Institution *InstitutionScope
	Status      Status
	Category    *primitive.ObjectID
	Assignment  AssignmentMode
	Assignee    primitive.ObjectID
	CreatedFrom time.Time
	CreatedTo   time.Time
}

type SortField struct {
	Field string
	Desc  bool
}

// ImageUpload is an image attached to a new complaint.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
