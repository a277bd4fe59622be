package handlers_test

import (
	"net/http"
	"testing"

	"inkwell/middleware"
	"inkwell/models"
)

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func TestSignup(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "secret123",
	})
	wantStatus(t, w, http.StatusCreated)

	var resp authResponse
	decodeBody(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("expected a token in the signup response")
	}
	if resp.User.Email != "ada@example.com" {
		t.Fatalf("user email: got %q", resp.User.Email)
	}

	claims, err := middleware.ParseToken(testSecret, resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != resp.User.ID.Hex() || claims.Email != "ada@example.com" || claims.Name != "Ada Lovelace" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv()

	body := map[string]string{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "secret123",
	}
	wantStatus(t, env.do(t, http.MethodPost, "/api/auth/signup", "", body), http.StatusCreated)

	w := env.do(t, http.MethodPost, "/api/auth/signup", "", body)
	wantStatus(t, w, http.StatusConflict)

	if len(env.users.users) != 1 {
		t.Fatalf("duplicate signup created a second record: %d users", len(env.users.users))
	}
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv()

	for name, body := range map[string]map[string]string{
		"missing name":   {"email": "a@example.com", "password": "secret123"},
		"missing email":  {"name": "Ada", "password": "secret123"},
		"short password": {"name": "Ada", "email": "a@example.com", "password": "abc"},
	} {
		w := env.do(t, http.MethodPost, "/api/auth/signup", "", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: wanted 400, got %d", name, w.Code)
		}
	}
	if len(env.users.users) != 0 {
		t.Fatalf("invalid signups created users: %d", len(env.users.users))
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "Ada Lovelace", "ada@example.com", "secret123")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "secret123",
	})
	wantStatus(t, w, http.StatusOK)

	var resp authResponse
	decodeBody(t, w, &resp)
	if _, err := middleware.ParseToken(testSecret, resp.Token); err != nil {
		t.Fatalf("login token does not verify: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "Ada Lovelace", "ada@example.com", "secret123")

	// Wrong password and unknown email get the same response.
	var bodies []string
	for _, creds := range []map[string]string{
		{"email": "ada@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "secret123"},
	} {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", creds)
		wantStatus(t, w, http.StatusUnauthorized)
		bodies = append(bodies, w.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("login failures are distinguishable: %q vs %q", bodies[0], bodies[1])
	}
}
