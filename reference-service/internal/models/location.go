package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Location is one village with its full administrative path.
type Location struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Province string             `json:"province" bson:"province"`
	District string             `json:"district" bson:"district"`
	Sector   string             `json:"sector" bson:"sector"`
	Cell     string             `json:"cell" bson:"cell"`
	Village  string             `json:"village" bson:"village"`
}

// LocationLevel is a level of the administrative hierarchy, top down.
type LocationLevel string

const (
	LevelProvince LocationLevel = "province"
	LevelDistrict LocationLevel = "district"
	LevelSector   LocationLevel = "sector"
	LevelCell     LocationLevel = "cell"
	LevelVillage  LocationLevel = "village"
)

// LocationFilter fixes the ancestors of a level. Empty fields are unset.
type LocationFilter struct {
	Province string
	District string
	Sector   string
	Cell     string
}
