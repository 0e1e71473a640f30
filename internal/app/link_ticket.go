package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// LinkTicketService issues and checks the HS256 tickets a recognizer helper
// presents when it opens the gesture link.
type LinkTicketService struct {
	secret string
	issuer string
	now    func() time.Time
}

var (
	ErrTicketConfig  = errors.New("link ticket config is incomplete")
	ErrTicketInvalid = errors.New("link ticket is invalid")
)

func NewLinkTicketService(secret, issuer string) *LinkTicketService {
	return &LinkTicketService{secret: secret, issuer: issuer, now: time.Now}
}

// Enabled reports whether tickets are required.
func (s *LinkTicketService) Enabled() bool {
	return s != nil && s.secret != ""
}

// Issue mints a ticket for helperID valid for ttl.
func (s *LinkTicketService) Issue(helperID string, ttl time.Duration) (string, error) {
	if s == nil {
		return "", fmt.Errorf("link ticket service is nil")
	}
	if helperID == "" {
		return "", fmt.Errorf("helper id is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", ErrTicketConfig
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": helperID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"jti": fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks signature, expiry and issuer and returns the helper id.
func (s *LinkTicketService) Verify(ticket string) (string, error) {
	if !s.Enabled() {
		return "", ErrTicketConfig
	}
	token, err := jwt.Parse(ticket, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTicketInvalid, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrTicketInvalid
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return "", fmt.Errorf("%w: issuer mismatch", ErrTicketInvalid)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTicketInvalid)
	}
	return sub, nil
}
