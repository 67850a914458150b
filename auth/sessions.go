package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/store"
)

var (
	// ErrInvalidCredentials covers both unknown accounts and wrong
	// passwords; callers never learn which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired or revoked")
)

const (
	sessionKeyPrefix  = "scoreboard:session:"
	revocationChannel = "scoreboard:session:revoked"
	tokenIssuer       = "marathon-scoreboard"
)

type Claims struct {
	AdminID string `json:"admin_id"`
	jwt.RegisteredClaims
}

// Sessions is the identity provider: it verifies admin credentials,
// issues signed session tokens, keeps the live session registry in redis
// and publishes revocations for subscribers.
type Sessions struct {
	admins store.Admin
	redis  *redis.Client
	key    []byte
	ttl    time.Duration
}

func NewSessions(admins store.Admin, redisClient *redis.Client, key []byte, ttl time.Duration) *Sessions {
	return &Sessions{
		admins: admins,
		redis:  redisClient,
		key:    key,
		ttl:    ttl,
	}
}

func sessionKey(jti string) string {
	return sessionKeyPrefix + jti
}

// Authenticate verifies the credentials and issues a session token.
func (s *Sessions) Authenticate(ctx context.Context, email, secret string) (string, error) {
	admin, err := s.admins.GetAdminByEmail(email)
	if err != nil {
		if err == store.ErrAdminNotFound {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(secret)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	now := time.Now()
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		AdminID: admin.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(ctx, sessionKey(jti), admin.ID.Hex(), s.ttl).Err(); err != nil {
		return "", err
	}

	return signed, nil
}

// Verify parses a session token and checks it is still registered. A
// token whose session was ended or expired out of redis is rejected even
// when the signature is still valid.
func (s *Sessions) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	n, err := s.redis.Exists(ctx, sessionKey(claims.ID)).Result()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrSessionExpired
	}

	return claims, nil
}

// EndSession drops the session from the registry and notifies
// subscribers. Ending an already ended session is not an error.
func (s *Sessions) EndSession(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}

	if err := s.redis.Del(ctx, sessionKey(claims.ID)).Err(); err != nil {
		return err
	}

	if err := s.redis.Publish(ctx, revocationChannel, claims.ID).Err(); err != nil {
		log.WithField("prefix", "auth").WithError(err).Error("fail to publish session revocation")
	}

	return nil
}

// WatchRevocations delivers the jti of every session ended anywhere in
// the deployment until ctx is cancelled.
func (s *Sessions) WatchRevocations(ctx context.Context) <-chan string {
	pubsub := s.redis.Subscribe(ctx, revocationChannel)
	out := make(chan string)

	go func() {
		defer close(out)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// Ping reports whether the session registry is reachable.
func (s *Sessions) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Sessions) parse(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return nil, ErrSessionExpired
	}
	if !parsed.Valid {
		return nil, ErrSessionExpired
	}

	return &claims, nil
}
