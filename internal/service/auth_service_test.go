package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	auth := f.svc.Auth

	user, err := auth.Register(f.ctx, RegisterUser{domain.RegisterUserDTO{Username: "gate1", Password: "secret1", FullName: "Gate One"}})
	if err != nil {
		t.Fatal(err)
	}
	if user.Role != domain.RoleOperator || user.Password != "" || !user.IsActive {
		t.Errorf("unexpected user %+v", user)
	}

	_, err = auth.Register(f.ctx, RegisterUser{domain.RegisterUserDTO{Username: "gate1", Password: "secret1"}})
	wantAppError(t, err, apperror.Conflict, "DUPLICATE_ENTRY")

	resp, err := auth.Login(f.ctx, Login{domain.LoginUserDTO{Username: "gate1", Password: "secret1"}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.UserID != user.ID || resp.Role != domain.RoleOperator || resp.Token == "" {
		t.Errorf("unexpected login response %+v", resp)
	}

	_, claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims["role"] != "OPERATOR" || claims["username"] != "gate1" {
		t.Errorf("unexpected claims %v", claims)
	}

	f.advance(25 * time.Hour)
	if _, _, err := auth.ValidateToken(resp.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expired token accepted: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Auth.Register(f.ctx, RegisterUser{domain.RegisterUserDTO{Username: "gate1", Password: "secret1"}}); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name, username, password string
	}{
		{"wrong password", "gate1", "nope"},
		{"unknown user", "ghost", "secret1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Auth.Login(f.ctx, Login{domain.LoginUserDTO{Username: tt.username, Password: tt.password}})
			wantAppError(t, err, apperror.Unauthorized, "")
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("got %v", err)
			}
		})
	}

	if _, _, err := f.svc.Auth.ValidateToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("malformed token accepted: %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Auth.EnsureAdmin(f.ctx, "root", "rootpass"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Auth.EnsureAdmin(f.ctx, "root", "other"); err != nil {
		t.Fatalf("second call should be a no-op: %v", err)
	}
	resp, err := f.svc.Auth.Login(f.ctx, Login{domain.LoginUserDTO{Username: "root", Password: "rootpass"}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Role != domain.RoleAdmin {
		t.Errorf("role = %s, want ADMIN", resp.Role)
	}

	u, err := f.svc.Auth.GetUser(f.ctx, GetUser{ID: resp.UserID})
	if err != nil {
		t.Fatal(err)
	}
	if u.Password != "" {
		t.Error("password hash leaked")
	}
}
