package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/restchat/internal/logger"
	"github.com/sbilibin2017/restchat/internal/models"
)

// cachedUser is the cached form of a user. The password digest is never cached.
type cachedUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserCacheRepository caches user profiles in Redis
type UserCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached users
}

// NewUserCacheRepository creates a new cache repository with the given TTL
func NewUserCacheRepository(client *redis.Client, expiration time.Duration) *UserCacheRepository {
	return &UserCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func userCacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Get returns the cached user, or nil if the key is missing.
func (r *UserCacheRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	key := userCacheKey(id)

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Log.Debugw("cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		logger.Log.Errorw("cache read failed", "key", key, "error", err)
		return nil, err
	}

	var cu cachedUser
	if err := json.Unmarshal(val, &cu); err != nil {
		logger.Log.Errorw("cache entry is corrupt", "key", key, "error", err)
		return nil, err
	}

	logger.Log.Debugw("cache hit", "key", key)
	return &models.User{
		ID:        cu.ID,
		Username:  cu.Username,
		Email:     cu.Email,
		CreatedAt: cu.CreatedAt,
	}, nil
}

// Set caches the user with the repository's expiration.
func (r *UserCacheRepository) Set(ctx context.Context, user *models.User) error {
	key := userCacheKey(user.ID)

	val, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, val, r.exp).Err()
	logger.Log.Debugw("cache write", "key", key, "error", err)
	return err
}

// Delete evicts the user.
func (r *UserCacheRepository) Delete(ctx context.Context, id int64) error {
	key := userCacheKey(id)
	err := r.client.Del(ctx, key).Err()
	logger.Log.Debugw("cache evict", "key", key, "error", err)
	return err
}

// CachedUserReadRepository serves GetByID from the cache and falls back to
// Postgres on a miss. Users it returns carry no password digest, so it must
// not back credential checks.
type CachedUserReadRepository struct {
	*UserReadRepository
	cache *UserCacheRepository
}

func NewCachedUserReadRepository(repo *UserReadRepository, cache *UserCacheRepository) *CachedUserReadRepository {
	return &CachedUserReadRepository{UserReadRepository: repo, cache: cache}
}

// GetByID returns the user or errs.NotFoundError. Cache failures degrade to a
// database read.
func (r *CachedUserReadRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if user, err := r.cache.Get(ctx, id); err == nil && user != nil {
		return user, nil
	}

	user, err := r.UserReadRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = r.cache.Set(ctx, user)
	return user, nil
}

// CachedUserWriteRepository evicts a user from the cache after every profile update.
type CachedUserWriteRepository struct {
	*UserWriteRepository
	cache *UserCacheRepository
}

func NewCachedUserWriteRepository(repo *UserWriteRepository, cache *UserCacheRepository) *CachedUserWriteRepository {
	return &CachedUserWriteRepository{UserWriteRepository: repo, cache: cache}
}

// Update sets username and/or email and evicts the cached profile.
func (r *CachedUserWriteRepository) Update(ctx context.Context, id int64, username, email *string) (*models.User, error) {
	user, err := r.UserWriteRepository.Update(ctx, id, username, email)
	if err != nil {
		return nil, err
	}
	_ = r.cache.Delete(ctx, id)
	return user, nil
}
