package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/tutorwave/lms-support/internal/domain"
	apperrors "github.com/tutorwave/lms-support/pkg/util"
)

type directoryStub struct {
	byID map[string]*domain.User
}

func (d *directoryStub) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := d.byID[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (d *directoryStub) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (d *directoryStub) FindTeacherBySubjects(_ context.Context, _ []string, _ string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func newAuthTestApp(users *directoryStub, tokens *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code}})
		},
	})
	mw := NewAuthMiddleware(tokens, users)
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("no principal")
		}
		return c.JSON(fiber.Map{"id": principal.User.ID})
	})
	return app
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestHandleLoadsPrincipal(t *testing.T) {
	tokens := NewTokenManager("test-secret", 5)
	users := &directoryStub{byID: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Dana", Role: domain.RoleStudent},
	}}
	app := newAuthTestApp(users, tokens)

	token, _, err := tokens.GenerateToken("u1")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	resp, err := app.Test(bearerRequest(token))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHandleRejectsUnrecognizedRole(t *testing.T) {
	tokens := NewTokenManager("test-secret", 5)
	users := &directoryStub{byID: map[string]*domain.User{
		"u2": {ID: "u2", Name: "Morgan", Role: domain.Role("Staff")},
	}}
	app := newAuthTestApp(users, tokens)

	token, _, err := tokens.GenerateToken("u2")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	resp, err := app.Test(bearerRequest(token))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestHandleRejectsUnknownUser(t *testing.T) {
	tokens := NewTokenManager("test-secret", 5)
	app := newAuthTestApp(&directoryStub{}, tokens)

	token, _, err := tokens.GenerateToken("ghost")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	resp, err := app.Test(bearerRequest(token))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandleRejectsBadTokens(t *testing.T) {
	tokens := NewTokenManager("test-secret", 5)
	app := newAuthTestApp(&directoryStub{}, tokens)

	for _, token := range []string{"", "not.a.jwt"} {
		resp, err := app.Test(bearerRequest(token))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d, want 401", token, resp.StatusCode)
		}
	}
}
