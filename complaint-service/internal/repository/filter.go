package repository

import (
	"complaint-portal/complaint-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// buildFilter translates a ComplaintFilter into a MongoDB query document.
func buildFilter(f models.ComplaintFilter) bson.M {
	conds := make([]bson.M, 0, 6)

	if f.Citizen != nil {
		conds = append(conds, bson.M{"citizen": *f.Citizen})
	}

	if f.Institution != nil {
		scope := bson.A{bson.M{"assignedTo": f.Institution.Institution}}
		if len(f.Institution.Categories) > 0 {
			scope = append(scope, bson.M{"category": bson.M{"$in": f.Institution.Categories}})
		}
		conds = append(conds, bson.M{"$or": scope})
	}

	if f.Status != "" {
		conds = append(conds, bson.M{"status": f.Status})
	}

	if f.Category != nil {
		conds = append(conds, bson.M{"category": *f.Category})
	}

	switch f.Assignment {
	case models.AssignmentNone:
		conds = append(conds, bson.M{"assignedTo": nil})
	case models.AssignmentSome:
		conds = append(conds, bson.M{"assignedTo": bson.M{"$ne": nil}})
	case models.AssignmentTo:
		conds = append(conds, bson.M{"assignedTo": f.Assignee})
	}

	if !f.CreatedFrom.IsZero() || !f.CreatedTo.IsZero() {
		created := bson.M{}
		if !f.CreatedFrom.IsZero() {
			created["$gte"] = f.CreatedFrom
		}
		if !f.CreatedTo.IsZero() {
			created["$lt"] = f.CreatedTo
		}
		conds = append(conds, bson.M{"createdAt": created})
	}

	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0]
	default:
		and := make(bson.A, len(conds))
		for i, c := range conds {
			and[i] = c
		}
		return bson.M{"$and": and}
	}
}

// buildSort renders sort keys and always appends _id so pages are stable.
func buildSort(fields []models.SortField) bson.D {
	sort := make(bson.D, 0, len(fields)+1)
	for _, f := range fields {
		if f.Field == "_id" {
			continue
		}
		sort = append(sort, bson.E{Key: f.Field, Value: direction(f.Desc)})
	}

	desc := true
	if len(fields) > 0 {
		desc = fields[0].Desc
	}
	return append(sort, bson.E{Key: "_id", Value: direction(desc)})
}

func direction(desc bool) int {
	if desc {
		return -1
	}
	return 1
}
