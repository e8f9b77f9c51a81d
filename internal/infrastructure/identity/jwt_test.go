package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v := NewJWTVerifier("secret")
	signed, err := v.Issue("uid-1", "alice@student.tdsb.on.ca", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := v.Verify(context.Background(), signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.UID != "uid-1" || got.Email != "alice@student.tdsb.on.ca" {
		t.Errorf("unexpected token %+v", got)
	}
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier("secret")

	wrongKey, _ := NewJWTVerifier("other").Issue("uid", "a@tdsb.on.ca", time.Minute)
	expired, _ := v.Issue("uid", "a@tdsb.on.ca", -time.Minute)
	noEmail, _ := v.Issue("uid", "", time.Minute)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "a@tdsb.on.ca"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"garbage":   "not-a-token",
		"wrong key": wrongKey,
		"expired":   expired,
		"no email":  noEmail,
		"alg none":  none,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := v.Verify(context.Background(), tok); err == nil {
				t.Fatal("expected verification to fail")
			}
		})
	}
}
