package cache

import (
	"context"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	clientSetPrefix = "metrics:client:"
	clientSetTTL    = 24 * time.Hour
)

// Connect aceita URL redis:// ou host:porta
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao interpretar REDIS_URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "erro ao conectar no redis")
	}
	return client, nil
}

// RedisStore grava cada entrada com EX igual ao TTL e indexa as chaves por cliente
type RedisStore struct {
	client   *redis.Client
	now      func() time.Time
	indexTTL time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now, indexTTL: clientSetTTL}
}

// WithIndexTTL garante que o índice por cliente dure ao menos o maior TTL configurado,
// senão DeleteByClient perderia entradas ainda válidas
func (s *RedisStore) WithIndexTTL(d time.Duration) *RedisStore {
	s.indexTTL = max(clientSetTTL, d)
	return s
}

// indexExpiry nunca fica abaixo do TTL da entrada sendo gravada
func (s *RedisStore) indexExpiry(ttl time.Duration) time.Duration {
	return max(s.indexTTL, ttl)
}

func clientSetKey(clientID string) string {
	return clientSetPrefix + clientID
}

func (s *RedisStore) Get(ctx context.Context, key string) (*domain.AggregationCacheEntry, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "erro ao ler entrada do redis")
	}

	entry, err := decodeEntry(data)
	if err != nil {
		return nil, false, err
	}
	// o EX do redis tem resolução de segundos; o corte exato é feito aqui
	if !entry.IsFresh(s.now()) {
		return nil, false, nil
	}
	return entry, true, nil
}

func (s *RedisStore) Set(ctx context.Context, entry *domain.AggregationCacheEntry) error {
	if entry == nil || entry.Key == "" {
		return nil
	}

	ttl := entry.ExpiresAt().Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	data, err := encodeEntry(entry)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entry.Key, data, ttl)
		pipe.SAdd(ctx, clientSetKey(entry.ClientID), entry.Key)
		pipe.Expire(ctx, clientSetKey(entry.ClientID), s.indexExpiry(ttl))
		return nil
	})
	return errors.Wrap(err, "erro ao gravar entrada no redis")
}

func (s *RedisStore) DeleteByClient(ctx context.Context, clientID string) (int, error) {
	setKey := clientSetKey(clientID)

	keys, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return 0, errors.Wrap(err, "erro ao listar chaves do cliente")
	}

	var removed int64
	if len(keys) > 0 {
		removed, err = s.client.Del(ctx, keys...).Result()
		if err != nil {
			return 0, errors.Wrap(err, "erro ao remover chaves do cliente")
		}
	}
	if err := s.client.Del(ctx, setKey).Err(); err != nil {
		return int(removed), errors.Wrap(err, "erro ao remover índice do cliente")
	}
	return int(removed), nil
}

// Purge limpa dos índices por cliente as chaves que o redis já expirou
func (s *RedisStore) Purge(ctx context.Context, _ time.Time) (int, error) {
	removed := 0

	iter := s.client.Scan(ctx, 0, clientSetPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()

		keys, err := s.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return removed, errors.Wrap(err, "erro ao listar chaves do cliente")
		}

		for _, key := range keys {
			n, err := s.client.Exists(ctx, key).Result()
			if err != nil {
				return removed, errors.Wrap(err, "erro ao verificar chave")
			}
			if n == 0 {
				if err := s.client.SRem(ctx, setKey, key).Err(); err != nil {
					return removed, errors.Wrap(err, "erro ao limpar índice do cliente")
				}
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, errors.Wrap(err, "erro ao percorrer índices")
	}
	return removed, nil
}

func encodeEntry(entry *domain.AggregationCacheEntry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao serializar entrada")
	}
	return data, nil
}

func decodeEntry(data []byte) (*domain.AggregationCacheEntry, error) {
	var entry domain.AggregationCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar entrada")
	}
	return &entry, nil
}
