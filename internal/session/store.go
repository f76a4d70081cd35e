package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/pkg/logger"
	"github.com/mediflow/hms-gateway/pkg/metrics"
	"github.com/mediflow/hms-gateway/pkg/security"
)

// ErrNotAuthenticated is returned whenever a session cannot be restored: a
// missing, expired or tampered token, or persisted keys that are gone. The
// caller treats it as "logged out", never as a crash.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session holds the acting identity: the remote bearer credential and the
// principal fetched at login. It is the only persistent client-side state.
type Session struct {
	ID        string          `json:"id"`
	Token     string          `json:"-"`
	Principal model.Principal `json:"principal"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store persists sessions in Redis under two keys per session, one for the
// bearer credential and one for the principal record. Logout deletes both
// atomically. The credential is encrypted at rest.
type Store struct {
	redis     *redis.Client
	encryptor security.Encryptor
	secret    []byte
	ttl       time.Duration
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

type Config struct {
	RedisURL  string
	Secret    string
	CipherKey []byte
	TTL       time.Duration
}

func NewStore(cfg Config, m *metrics.Metrics, log *logger.Logger) (*Store, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	encryptor, err := security.NewEncryptor(cfg.CipherKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build session encryptor: %w", err)
	}

	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	return &Store{
		redis:     client,
		encryptor: encryptor,
		secret:    []byte(cfg.Secret),
		ttl:       cfg.TTL,
		metrics:   m,
		logger:    log,
	}, nil
}

func tokenKey(id string) string     { return "hms:session:" + id + ":token" }
func principalKey(id string) string { return "hms:session:" + id + ":user" }

type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string     `json:"sid"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
}

// Create persists a new session and returns the signed portal token the
// browser will present on every request.
func (s *Store) Create(ctx context.Context, bearer string, principal *model.Principal) (string, error) {
	id := uuid.New().String()
	now := time.Now()

	sealed, err := s.encryptor.Encrypt([]byte(bearer))
	if err != nil {
		return "", fmt.Errorf("failed to seal bearer credential: %w", err)
	}

	record, err := json.Marshal(principal)
	if err != nil {
		return "", fmt.Errorf("failed to marshal principal: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, tokenKey(id), sealed, s.ttl)
	pipe.Set(ctx, principalKey(id), record, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Subject:   principal.Username,
		},
		SessionID: id,
		Username:  principal.Username,
		Role:      principal.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}
	return token, nil
}

// Load restores the session behind a portal token. Any failure along the way
// collapses into ErrNotAuthenticated; the identity restore fails open to the
// logged-out state.
func (s *Store) Load(ctx context.Context, portalToken string) (*Session, error) {
	claims, err := s.parseToken(portalToken)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	sealed, err := s.redis.Get(ctx, tokenKey(claims.SessionID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Error(err, "session restore failed", "session_id", claims.SessionID)
		}
		return nil, ErrNotAuthenticated
	}

	record, err := s.redis.Get(ctx, principalKey(claims.SessionID)).Bytes()
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	bearer, err := s.encryptor.Decrypt(sealed)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	var principal model.Principal
	if err := json.Unmarshal(record, &principal); err != nil {
		return nil, ErrNotAuthenticated
	}

	return &Session{
		ID:        claims.SessionID,
		Token:     string(bearer),
		Principal: principal,
		CreatedAt: claims.IssuedAt.Time,
	}, nil
}

// Destroy deletes both persisted keys in one transaction. A token that no
// longer resolves is treated as already logged out.
func (s *Store) Destroy(ctx context.Context, portalToken string) error {
	claims, err := s.parseToken(portalToken)
	if err != nil {
		return nil
	}

	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, tokenKey(claims.SessionID))
	pipe.Del(ctx, principalKey(claims.SessionID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
	return nil
}

func (s *Store) parseToken(portalToken string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(portalToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("missing session id")
	}
	return claims, nil
}

// Close releases the underlying Redis connection.
func (s *Store) Close() error {
	return s.redis.Close()
}
