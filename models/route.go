package models

import "time"

// Route difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyExpert = "expert"
)

// ValidDifficulty reports whether d is one of the known difficulty levels.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// Stop is a single stop on a route itinerary.
type Stop struct {
	Location    string `bson:"location" json:"location"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Route is a multi-stop itinerary.
type Route struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	CreatedBy      string    `bson:"createdBy" json:"createdBy"`
	UserName       string    `bson:"userName" json:"userName"`
	UserImage      string    `bson:"userImage,omitempty" json:"userImage,omitempty"`
	Title          string    `bson:"title" json:"title"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	Stops          []Stop    `bson:"stops" json:"stops"`
	TransportModes []string  `bson:"transportModes,omitempty" json:"transportModes,omitempty"`
	Difficulty     string    `bson:"difficulty" json:"difficulty"`
	Duration       string    `bson:"duration,omitempty" json:"duration,omitempty"`
	Distance       string    `bson:"distance,omitempty" json:"distance,omitempty"`
	Cost           string    `bson:"cost,omitempty" json:"cost,omitempty"`
	Season         []string  `bson:"season,omitempty" json:"season,omitempty"`
	Tags           []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	MainImage      string    `bson:"mainImage,omitempty" json:"mainImage,omitempty"`
	Likes          int64     `bson:"likes" json:"likes"`
	Comments       int64     `bson:"comments" json:"comments"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
