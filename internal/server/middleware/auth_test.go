package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	identity Identity
	err      error
}

func (v stubValidator) ValidateToken(string) (Identity, error) {
	return v.identity, v.err
}

func TestAuth(t *testing.T) {
	userID := uuid.New()
	okValidator := stubValidator{identity: Identity{UserID: userID, Email: "nurse@example.com"}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := GetIdentity(r)
		require.NoError(t, err)
		assert.Equal(t, userID, identity.UserID)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		validator  TokenValidator
		wantStatus int
	}{
		{"valid bearer token", "Bearer token123", okValidator, http.StatusOK},
		{"lowercase bearer", "bearer token123", okValidator, http.StatusOK},
		{"missing header", "", okValidator, http.StatusUnauthorized},
		{"no bearer prefix", "token123", okValidator, http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", okValidator, http.StatusUnauthorized},
		{"validator rejects", "Bearer bad", stubValidator{err: fmt.Errorf("bad token")}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(tt.validator)(next)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetIdentityMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	_, err := GetIdentity(req)
	assert.Error(t, err)
}
