package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"travelbuddy/globals"
)

func withSecret(t *testing.T) {
	t.Helper()
	prev := globals.JwtSecret
	globals.JwtSecret = []byte("test-secret")
	t.Cleanup(func() { globals.JwtSecret = prev })
}

func TestIssueAndValidate(t *testing.T) {
	withSecret(t)
	token, err := IssueToken("507f1f77bcf86cd799439011", "Emma", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "507f1f77bcf86cd799439011" || claims.Name != "Emma" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsExpiredAndMalformed(t *testing.T) {
	withSecret(t)
	old, _ := IssueToken("u1", "Old", time.Now().Add(-24*time.Hour))
	if _, err := ValidateJWT("Bearer " + old); err == nil {
		t.Fatalf("expected expired token to fail")
	}
	for _, h := range []string{"", "Bearer ", "Token abc", "Bearer not.a.jwt"} {
		if _, err := ValidateJWT(h); err == nil {
			t.Fatalf("expected %q to fail", h)
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	withSecret(t)
	token, _ := IssueToken("u42", "Sam", time.Now())

	var seen string
	h := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seen, _ = r.Context().Value(globals.UserIDKey).(string)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/itineraries", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h(httptest.NewRecorder(), req, nil)
	if seen != "u42" {
		t.Fatalf("expected user id from token, got %q", seen)
	}

	seen = ""
	req = httptest.NewRequest(http.MethodPost, "/api/itineraries", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h(httptest.NewRecorder(), req, nil)
	if seen != "" {
		t.Fatalf("invalid token should leave request anonymous, got %q", seen)
	}
}
