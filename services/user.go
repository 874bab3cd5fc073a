package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wanderhub/models"
	"wanderhub/store"
	"wanderhub/utils"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidUsername    = errors.New("username must be at least 3 characters")
	ErrSelfFollow         = errors.New("cannot follow yourself")
)

// UserService creates users on signup and maintains profiles, handles, and
// follow relations.
type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

// Register creates a user document for a new email address.
func (s *UserService) Register(ctx context.Context, email, password, name string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, errors.New("email and password are required")
	}

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	id, err := s.store.Create(ctx, "users", user)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return user, nil
}

// Authenticate verifies an email/password pair.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.findByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return models.User{}, err
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return *user, nil
}

func (s *UserService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var users []models.User
	err := s.store.Query(ctx, "users", store.Query{
		Filters: []store.Filter{{Field: "email", Value: email}},
		Limit:   1,
	}, &users)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	if err := s.store.Get(ctx, "users", userID, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ProfileUpdate carries optional profile field changes; nil means unchanged.
type ProfileUpdate struct {
	Name     *string
	Bio      *string
	Location *string
	Website  *string
	PhotoURL *string
}

// UpdateProfile applies the non-nil fields to the user document.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error {
	set := map[string]any{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Website != nil {
		set["website"] = *upd.Website
	}
	if upd.PhotoURL != nil {
		set["photoURL"] = *upd.PhotoURL
	}
	if len(set) == 0 {
		return nil
	}
	return s.store.Update(ctx, "users", userID, store.Update{Set: set})
}

// ClaimUsername reserves a handle for the user. The handle is the document id
// in the usernames collection, so the uniqueness check is a single
// create-if-absent instead of a racy read-then-write.
func (s *UserService) ClaimUsername(ctx context.Context, userID, username string) (string, error) {
	handle := strings.ToLower(strings.TrimSpace(username))
	handle = strings.TrimPrefix(handle, "@")
	if len(handle) < 3 {
		return "", ErrInvalidUsername
	}
	handle = "@" + handle

	var user models.User
	if err := s.store.Get(ctx, "users", userID, &user); err != nil {
		return "", err
	}
	if user.Username == handle {
		return handle, nil
	}

	claim := models.UsernameClaim{
		Username:  handle,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	err := s.store.Insert(ctx, "usernames", handle, claim)
	if errors.Is(err, store.ErrExists) {
		return "", ErrUsernameTaken
	}
	if err != nil {
		return "", fmt.Errorf("failed to reserve username: %w", err)
	}

	if err := s.store.Update(ctx, "users", userID, store.Update{
		Set: map[string]any{"username": handle},
	}); err != nil {
		return "", err
	}

	// Release the previous handle. Best-effort: a failure leaves a stale
	// reservation, never a broken profile.
	if user.Username != "" {
		if err := s.store.Delete(ctx, "usernames", user.Username); err != nil && !errors.Is(err, store.ErrNotFound) {
			return handle, nil
		}
	}
	return handle, nil
}

// Follow creates the follow relation and bumps both follower counters.
// Following an already-followed user is a no-op.
func (s *UserService) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrSelfFollow
	}
	if _, err := s.Get(ctx, targetID); err != nil {
		return err
	}

	follow := models.Follow{
		ID:          models.FollowID(followerID, targetID),
		FollowerID:  followerID,
		FollowingID: targetID,
		CreatedAt:   time.Now(),
	}
	err := s.store.Insert(ctx, "follows", follow.ID, follow)
	if errors.Is(err, store.ErrExists) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, "users", targetID, store.Update{
		Inc: map[string]int64{"followers": 1},
	}); err != nil {
		return err
	}
	return s.store.Update(ctx, "users", followerID, store.Update{
		Inc: map[string]int64{"following": 1},
	})
}

// Unfollow removes the relation and lowers both counters, clamped at zero.
func (s *UserService) Unfollow(ctx context.Context, followerID, targetID string) error {
	err := s.store.Delete(ctx, "follows", models.FollowID(followerID, targetID))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, "users", targetID, store.Update{
		IncFloor: map[string]int64{"followers": -1},
	}); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err := s.store.Update(ctx, "users", followerID, store.Update{
		IncFloor: map[string]int64{"following": -1},
	}); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}
