package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wanderhub/models"
	"wanderhub/store"
)

var ErrNotContentOwner = errors.New("content not found or not owned by user")

const defaultFeedLimit = 20

// ContentService creates, lists, and deletes the three content kinds. The
// author's display name and photo are denormalized onto each document at
// write time.
type ContentService struct {
	store store.Store
}

func NewContentService(st store.Store) *ContentService {
	return &ContentService{store: st}
}

func (s *ContentService) author(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	if err := s.store.Get(ctx, "users", userID, &user); err != nil {
		return models.User{}, fmt.Errorf("failed to fetch author: %w", err)
	}
	return user, nil
}

// NewStory carries the author-supplied story fields.
type NewStory struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Images      []string `json:"images" binding:"required,min=1"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
}

func (s *ContentService) CreateStory(ctx context.Context, userID string, in NewStory) (models.Story, error) {
	if strings.TrimSpace(in.Title) == "" || len(in.Images) == 0 {
		return models.Story{}, errors.New("title and at least one image are required")
	}
	author, err := s.author(ctx, userID)
	if err != nil {
		return models.Story{}, err
	}

	story := models.Story{
		UserID:      userID,
		UserName:    author.Name,
		UserImage:   author.PhotoURL,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Images:      in.Images,
		Location:    in.Location,
		Tags:        in.Tags,
		CreatedAt:   time.Now(),
	}
	id, err := s.store.Create(ctx, "stories", story)
	if err != nil {
		return models.Story{}, fmt.Errorf("failed to create story: %w", err)
	}
	story.ID = id

	// Denormalized story counter on the author profile.
	if err := s.store.Update(ctx, "users", userID, store.Update{
		Inc: map[string]int64{"stories": 1},
	}); err != nil {
		return models.Story{}, err
	}
	return story, nil
}

func (s *ContentService) ListStories(ctx context.Context, limit int64) ([]models.Story, error) {
	var stories []models.Story
	err := s.store.Query(ctx, "stories", recentQuery(limit), &stories)
	return stories, err
}

func (s *ContentService) GetStory(ctx context.Context, id string) (models.Story, error) {
	var story models.Story
	err := s.store.Get(ctx, "stories", id, &story)
	return story, err
}

func (s *ContentService) DeleteStory(ctx context.Context, id, userID string) error {
	var story models.Story
	if err := s.ownedDoc(ctx, "stories", id, &story); err != nil {
		return err
	}
	if story.UserID != userID {
		return ErrNotContentOwner
	}
	if err := s.store.Delete(ctx, "stories", id); err != nil {
		return err
	}
	if err := s.store.Update(ctx, "users", userID, store.Update{
		IncFloor: map[string]int64{"stories": -1},
	}); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	s.cascade(ctx, models.ContentStory, id)
	return nil
}

// NewRoute carries the author-supplied route fields.
type NewRoute struct {
	Title          string        `json:"title" binding:"required"`
	Description    string        `json:"description"`
	Stops          []models.Stop `json:"stops" binding:"required,min=1"`
	TransportModes []string      `json:"transportModes"`
	Difficulty     string        `json:"difficulty" binding:"required"`
	Duration       string        `json:"duration"`
	Distance       string        `json:"distance"`
	Cost           string        `json:"cost"`
	Season         []string      `json:"season"`
	Tags           []string      `json:"tags"`
	MainImage      string        `json:"mainImage"`
}

func (s *ContentService) CreateRoute(ctx context.Context, userID string, in NewRoute) (models.Route, error) {
	if strings.TrimSpace(in.Title) == "" || len(in.Stops) == 0 {
		return models.Route{}, errors.New("title and at least one stop are required")
	}
	if !models.ValidDifficulty(in.Difficulty) {
		return models.Route{}, fmt.Errorf("unknown difficulty %q", in.Difficulty)
	}
	author, err := s.author(ctx, userID)
	if err != nil {
		return models.Route{}, err
	}

	route := models.Route{
		CreatedBy:      userID,
		UserName:       author.Name,
		UserImage:      author.PhotoURL,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Stops:          in.Stops,
		TransportModes: in.TransportModes,
		Difficulty:     in.Difficulty,
		Duration:       in.Duration,
		Distance:       in.Distance,
		Cost:           in.Cost,
		Season:         in.Season,
		Tags:           in.Tags,
		MainImage:      in.MainImage,
		CreatedAt:      time.Now(),
	}
	id, err := s.store.Create(ctx, "routes", route)
	if err != nil {
		return models.Route{}, fmt.Errorf("failed to create route: %w", err)
	}
	route.ID = id
	return route, nil
}

func (s *ContentService) ListRoutes(ctx context.Context, limit int64) ([]models.Route, error) {
	var routes []models.Route
	err := s.store.Query(ctx, "routes", recentQuery(limit), &routes)
	return routes, err
}

func (s *ContentService) GetRoute(ctx context.Context, id string) (models.Route, error) {
	var route models.Route
	err := s.store.Get(ctx, "routes", id, &route)
	return route, err
}

func (s *ContentService) DeleteRoute(ctx context.Context, id, userID string) error {
	var route models.Route
	if err := s.ownedDoc(ctx, "routes", id, &route); err != nil {
		return err
	}
	if route.CreatedBy != userID {
		return ErrNotContentOwner
	}
	if err := s.store.Delete(ctx, "routes", id); err != nil {
		return err
	}
	s.cascade(ctx, models.ContentRoute, id)
	return nil
}

// NewPost carries the author-supplied community post fields.
type NewPost struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	ImageURL string   `json:"imageUrl"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
}

func (s *ContentService) CreatePost(ctx context.Context, userID string, in NewPost) (models.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return models.Post{}, errors.New("title and content are required")
	}
	author, err := s.author(ctx, userID)
	if err != nil {
		return models.Post{}, err
	}

	post := models.Post{
		UserID:    userID,
		UserName:  author.Name,
		UserImage: author.PhotoURL,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Location:  in.Location,
		Tags:      in.Tags,
		CreatedAt: time.Now(),
	}
	id, err := s.store.Create(ctx, "posts", post)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	post.ID = id
	return post, nil
}

func (s *ContentService) ListPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	var posts []models.Post
	err := s.store.Query(ctx, "posts", recentQuery(limit), &posts)
	return posts, err
}

func (s *ContentService) GetPost(ctx context.Context, id string) (models.Post, error) {
	var post models.Post
	err := s.store.Get(ctx, "posts", id, &post)
	return post, err
}

func (s *ContentService) DeletePost(ctx context.Context, id, userID string) error {
	var post models.Post
	if err := s.ownedDoc(ctx, "posts", id, &post); err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrNotContentOwner
	}
	if err := s.store.Delete(ctx, "posts", id); err != nil {
		return err
	}
	s.cascade(ctx, models.ContentPost, id)
	return nil
}

// SharePost bumps the post's share counter.
func (s *ContentService) SharePost(ctx context.Context, id string) (int64, error) {
	if err := s.store.Update(ctx, "posts", id, store.Update{
		Inc: map[string]int64{"engagement.shares": 1},
	}); err != nil {
		return 0, err
	}
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return 0, err
	}
	return post.Engagement.Shares, nil
}

func (s *ContentService) ownedDoc(ctx context.Context, collection, id string, out any) error {
	err := s.store.Get(ctx, collection, id, out)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotContentOwner
	}
	return err
}

// cascade removes the comments and likes hanging off a deleted content item.
// Best-effort, matching the convention that counters and relation documents
// are maintained client-side rather than by the database.
func (s *ContentService) cascade(ctx context.Context, t models.ContentType, contentID string) {
	filters := []store.Filter{
		{Field: "contentType", Value: string(t)},
		{Field: "contentId", Value: contentID},
	}
	if _, err := s.store.DeleteMany(ctx, "comments", filters); err != nil {
		return
	}
	s.store.DeleteMany(ctx, "likes", filters)
}

func recentQuery(limit int64) store.Query {
	if limit <= 0 || limit > 100 {
		limit = defaultFeedLimit
	}
	return store.Query{OrderBy: "createdAt", Desc: true, Limit: limit}
}
