package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestAuthMiddlewareRoundTrip(t *testing.T) {
	secret := "test-secret"
	accountID := uuid.New()

	token, err := GenerateJWT(accountID, secret)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	var got uuid.UUID
	handler := AuthMiddleware(secret)(func(c echo.Context) error {
		id, err := GetAccountID(c)
		if err != nil {
			return err
		}
		got = id
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got != accountID {
		t.Errorf("account id = %s, want %s", got, accountID)
	}
}

func TestAuthMiddlewareAcceptsCookie(t *testing.T) {
	secret := "test-secret"
	accountID := uuid.New()

	token, err := GenerateJWT(accountID, secret)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := AuthMiddleware(secret)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := AuthMiddleware("test-secret")(func(c echo.Context) error { return nil })

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("got %v, want 401", err)
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	accountID := uuid.New()
	token, err := GenerateJWT(accountID, "secret-a")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := AuthMiddleware("secret-b")(func(c echo.Context) error { return nil })

	err = handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("got %v, want 401", err)
	}
}
