package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestLinkTicketIssueAndVerify(t *testing.T) {
	svc := NewLinkTicketService("test-secret", "gesturecards")
	ticket, err := svc.Issue("helper-1", time.Minute)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	claims := parseTicketClaims(t, ticket, "test-secret")
	if got := stringClaim(t, claims, "sub"); got != "helper-1" {
		t.Fatalf("sub = %s, want helper-1", got)
	}
	if got := stringClaim(t, claims, "iss"); got != "gesturecards" {
		t.Fatalf("iss = %s, want gesturecards", got)
	}

	helper, err := svc.Verify(ticket)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if helper != "helper-1" {
		t.Fatalf("helper = %s, want helper-1", helper)
	}
}

func TestLinkTicketRejectsWrongSecret(t *testing.T) {
	ticket, err := NewLinkTicketService("one", "gesturecards").Issue("helper", time.Minute)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if _, err := NewLinkTicketService("two", "gesturecards").Verify(ticket); !errors.Is(err, ErrTicketInvalid) {
		t.Fatalf("expected ErrTicketInvalid, got %v", err)
	}
}

func TestLinkTicketRejectsExpired(t *testing.T) {
	svc := NewLinkTicketService("secret", "gesturecards")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	ticket, err := svc.Issue("helper", time.Minute)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	svc.now = time.Now
	if _, err := svc.Verify(ticket); !errors.Is(err, ErrTicketInvalid) {
		t.Fatalf("expected expired ticket to fail, got %v", err)
	}
}

func TestLinkTicketRejectsOtherIssuer(t *testing.T) {
	ticket, _ := NewLinkTicketService("secret", "someone-else").Issue("helper", time.Minute)
	if _, err := NewLinkTicketService("secret", "gesturecards").Verify(ticket); !errors.Is(err, ErrTicketInvalid) {
		t.Fatalf("expected issuer mismatch, got %v", err)
	}
}

func TestLinkTicketRequiresConfig(t *testing.T) {
	svc := NewLinkTicketService("", "gesturecards")
	if svc.Enabled() {
		t.Fatal("service without secret must be disabled")
	}
	if _, err := svc.Issue("helper", time.Minute); !errors.Is(err, ErrTicketConfig) {
		t.Fatalf("expected ErrTicketConfig, got %v", err)
	}
}

func parseTicketClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func stringClaim(t *testing.T, claims jwt.MapClaims, name string) string {
	t.Helper()
	value, ok := claims[name]
	if !ok {
		t.Fatalf("missing %s claim", name)
	}
	str, ok := value.(string)
	if !ok {
		t.Fatalf("%s claim is not a string", name)
	}
	return str
}
