package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/constants"
	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// TranslationMemory remembers accepted translations keyed by source text,
// locale, field and limit, so unchanged sources are not sent to the model
// again after the target file is lost.
type TranslationMemory struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewTranslationMemory(cfg CacheConfig, logger *zap.Logger) (*TranslationMemory, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = constants.MemoryConfig.DefaultTTL
	}

	return &TranslationMemory{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// MemoryKey derives the cache key for one translation job.
func MemoryKey(sourceText, locale string, field domain.FieldKey, limit int) string {
	h := sha256.New()
	for _, part := range []string{sourceText, locale, field.String(), strconv.Itoa(limit)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return constants.MemoryConfig.KeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the remembered entry, if any. A miss is not an error.
func (m *TranslationMemory) Lookup(ctx context.Context, sourceText, locale string, field domain.FieldKey, limit int) (domain.AuditEntry, bool, error) {
	key := MemoryKey(sourceText, locale, field, limit)

	value, err := m.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return domain.AuditEntry{}, false, nil
	}
	if err != nil {
		m.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return domain.AuditEntry{}, false, errors.NewCacheError("get failed", "get", key, err)
	}

	var entry domain.AuditEntry
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		m.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
		return domain.AuditEntry{}, false, errors.NewCacheError("unmarshal failed", "get", key, err)
	}

	return entry, true, nil
}

func (m *TranslationMemory) Store(ctx context.Context, sourceText, locale string, field domain.FieldKey, limit int, entry domain.AuditEntry) error {
	key := MemoryKey(sourceText, locale, field, limit)

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := m.client.Set(ctx, key, jsonData, m.ttl).Err(); err != nil {
		m.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (m *TranslationMemory) Close() error {
	return m.client.Close()
}
