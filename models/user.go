package models

import "time"

// User defines a user entity. Counter fields (followers, following, stories,
// savedRoutes) are denormalized and maintained alongside the writes that
// change them, never recomputed.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	Username     string    `bson:"username,omitempty" json:"username,omitempty"` // "@"-prefixed handle
	PasswordHash string    `bson:"passwordHash" json:"-"`
	PhotoURL     string    `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Bio          string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Location     string    `bson:"location,omitempty" json:"location,omitempty"`
	Website      string    `bson:"website,omitempty" json:"website,omitempty"`
	Followers    int64     `bson:"followers" json:"followers"`
	Following    int64     `bson:"following" json:"following"`
	Stories      int64     `bson:"stories" json:"stories"`
	SavedRoutes  int64     `bson:"savedRoutes" json:"savedRoutes"`
	Badges       []string  `bson:"badges,omitempty" json:"badges,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// UsernameClaim reserves a handle in the usernames collection. The handle
// itself is the document id, so claiming is a single create-if-absent.
type UsernameClaim struct {
	Username  string    `bson:"_id" json:"username"`
	UserID    string    `bson:"userId" json:"userId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Follow represents a follow relationship between users.
type Follow struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	FollowerID  string    `bson:"followerId" json:"followerId"`
	FollowingID string    `bson:"followingId" json:"followingId"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// FollowID builds the composite id for a follow relation.
func FollowID(followerID, followingID string) string {
	return followerID + "_" + followingID
}
