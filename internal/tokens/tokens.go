// Package tokens issues and verifies the signed session tokens handed
// out at login. Tokens are stateless: nothing is persisted server-side
// and there is no revocation list, they simply expire.
package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// expired, malformed. Callers must treat all of them identically.
var ErrInvalidToken = errors.New("invalid or expired token")

type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service signs session tokens with a server-wide secret. Now is
// overridable so expiry behavior can be tested with a fake clock.
type Service struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func New(secret []byte, ttl time.Duration) *Service {
	return &Service{Secret: secret, TTL: ttl, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) Issue(userID uint, username string) (string, error) {
	issued := s.now()
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

func (s *Service) Verify(tokenStr string) (uint, string, error) {
	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return 0, "", ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", ErrInvalidToken
	}

	return uint(id), claims.Username, nil
}
