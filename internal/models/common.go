package models

// Address is a structured postal address with geo coordinates.
type Address struct {
	FullText  string  `bson:"fullText" json:"fullText"`
	City      string  `bson:"city,omitempty" json:"city,omitempty"`
	State     string  `bson:"state,omitempty" json:"state,omitempty"`
	Pincode   string  `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}
