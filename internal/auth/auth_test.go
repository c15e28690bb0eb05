package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}

	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong-pass"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("CheckPassword with wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("abc", bcrypt.MinCost)
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("short password: got %v, want ErrValidation", err)
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret-at-least-16", time.Hour)

	token, err := issuer.Issue(42, "user@test.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret-at-least-16", time.Hour)
	other := NewIssuer("another-secret-entirely", time.Hour)

	token, err := issuer.Issue(42, "user@test.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("foreign secret: got %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret-at-least-16", -time.Minute)

	token, err := issuer.Issue(42, "user@test.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("expired token: got %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret-at-least-16", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(token); !errors.Is(err, core.ErrInvalidCredentials) {
			t.Errorf("Verify(%q): got %v, want ErrInvalidCredentials", token, err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	issuer := NewIssuer("test-secret-at-least-16", time.Hour)
	logger := applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})

	var gotUserID int64
	handler := Middleware(issuer, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		token, err := issuer.Issue(7, "user@test.com")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/contas", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if gotUserID != 7 {
			t.Errorf("user id from context = %d, want 7", gotUserID)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contas", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contas", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
