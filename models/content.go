package models

// ContentType discriminates the three likeable/commentable entity kinds.
type ContentType string

const (
	ContentStory ContentType = "story"
	ContentPost  ContentType = "post"
	ContentRoute ContentType = "route"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentStory, ContentPost, ContentRoute:
		return true
	}
	return false
}

// Collection returns the store collection holding documents of this type.
func (t ContentType) Collection() string {
	switch t {
	case ContentStory:
		return "stories"
	case ContentPost:
		return "posts"
	case ContentRoute:
		return "routes"
	}
	return string(t) + "s"
}

// LikeCountField returns the dotted path of the like counter on the content
// document. Posts nest their counters under "engagement"; stories and routes
// keep them at top level.
func (t ContentType) LikeCountField() string {
	if t == ContentPost {
		return "engagement.likes"
	}
	return "likes"
}

// CommentCountField returns the dotted path of the comment counter.
func (t ContentType) CommentCountField() string {
	if t == ContentPost {
		return "engagement.comments"
	}
	return "comments"
}

// OwnerOf extracts the owning user id from a raw content document. Stories
// and posts record their owner as userId, routes as createdBy.
type ContentOwner struct {
	UserID    string `bson:"userId"`
	CreatedBy string `bson:"createdBy"`
	Title     string `bson:"title"`
}

func (c ContentOwner) Owner() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.CreatedBy
}

// LikeID builds the composite id approximating the at-most-one-like-per-
// (content, user) constraint: "{contentType}_{contentId}_{userId}".
func LikeID(t ContentType, contentID, userID string) string {
	return string(t) + "_" + contentID + "_" + userID
}

// SaveID builds the composite id for a route bookmark: "{routeId}_{userId}".
func SaveID(routeID, userID string) string {
	return routeID + "_" + userID
}
