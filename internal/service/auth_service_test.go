package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	alice := s.register(t, "alice")
	if alice.Token == "" || alice.ID == "" {
		t.Fatalf("expected token and user ID, got %+v", alice)
	}

	t.Run("login with the same credentials", func(t *testing.T) {
		resp, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "ALICE@example.com",
			Password: "password-alice",
		}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.User.ID != alice.ID {
			t.Errorf("expected user %s, got %s", alice.ID, resp.Msg.User.ID)
		}
	})

	t.Run("GetCurrentUser", func(t *testing.T) {
		resp, err := s.auth.GetCurrentUser(ctx, authed(alice, &api.GetCurrentUserRequest{}))
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		if resp.Msg.User.Email != "alice@example.com" || resp.Msg.User.DisplayName != "alice" {
			t.Errorf("unexpected user: %+v", resp.Msg.User)
		}
	})

	t.Run("GetCurrentUser without token", func(t *testing.T) {
		_, err := s.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		expectCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "alice@example.com",
			Password: "not-the-password",
		}))
		expectCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email:       "Alice@Example.com",
			DisplayName: "Alice Again",
			Password:    "password123",
		}))
		expectCode(t, err, connect.CodeAlreadyExists)
	})
}

func TestRegister_Validation(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name string
		req  *api.RegisterRequest
	}{
		{"short password", &api.RegisterRequest{Email: "a@example.com", DisplayName: "A", Password: "short"}},
		{"bad email", &api.RegisterRequest{Email: "not-an-email", DisplayName: "A", Password: "password123"}},
		{"missing name", &api.RegisterRequest{Email: "a@example.com", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.auth.Register(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, connect.CodeInvalidArgument)
		})
	}
}
