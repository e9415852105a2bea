package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/nurlyy/course_ui/internal/client"
	"github.com/nurlyy/course_ui/internal/domain"
	"github.com/nurlyy/course_ui/pkg/auth"
	"github.com/nurlyy/course_ui/pkg/logger"
)

const groupsLookupPath = "groups/all"

// Cache - хранилище справочников. Реализуется cache.Redis
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// LookupService отдает справочник групп для выпадающих списков.
// Справочник кэшируется отдельно для каждого токена, потому что API
// может фильтровать данные по пользователю
type LookupService struct {
	client *client.Client
	cache  Cache
	ttl    time.Duration
	logger logger.Logger
}

// NewLookupService создает сервис справочников. cache может быть nil
func NewLookupService(c *client.Client, cache Cache, ttl time.Duration, log logger.Logger) *LookupService {
	return &LookupService{
		client: c,
		cache:  cache,
		ttl:    ttl,
		logger: log.With("service", "lookup"),
	}
}

// Groups возвращает все группы
func (s *LookupService) Groups(ctx context.Context) ([]domain.GroupListItemGetResponse, error) {
	key := groupsCacheKey(ctx)

	if groups, ok := s.fromCache(ctx, key); ok {
		return groups, nil
	}

	page, err := client.Get[domain.PaginatedResponse[domain.GroupListItemGetResponse]](ctx, s.client, groupsLookupPath)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, page.Items)
	return page.Items, nil
}

// Invalidate сбрасывает справочник текущего пользователя
func (s *LookupService) Invalidate(ctx context.Context) {
	if s == nil || s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, groupsCacheKey(ctx)); err != nil {
		s.logger.Warn("Failed to invalidate groups lookup", map[string]interface{}{"error": err.Error()})
	}
}

func (s *LookupService) fromCache(ctx context.Context, key string) ([]domain.GroupListItemGetResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Groups lookup cache unavailable", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var groups []domain.GroupListItemGetResponse
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		s.logger.Warn("Discarding corrupted groups lookup", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return groups, true
}

func (s *LookupService) toCache(ctx context.Context, key string, groups []domain.GroupListItemGetResponse) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(groups)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
		s.logger.Warn("Failed to cache groups lookup", map[string]interface{}{"error": err.Error()})
	}
}

// groupsCacheKey строит ключ по хэшу токена, сам токен в Redis не попадает
func groupsCacheKey(ctx context.Context) string {
	token, _ := auth.TokenFromContext(ctx)
	sum := sha256.Sum256([]byte(token))
	return "course_ui:lookup:groups:" + hex.EncodeToString(sum[:])
}
