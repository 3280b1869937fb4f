package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/config"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/monitoring"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

func testValidator() *TokenValidator {
	return NewTokenValidator(&config.JWTConfig{
		SecretKey:      "test-secret-key",
		AccessTokenTTL: 3600,
		Issuer:         "caregroup-portal",
	})
}

func doctorClaims() *types.UserClaims {
	return &types.UserClaims{
		UserID:   "doctor-456",
		Username: "dr.roe",
		Role:     types.RoleDoctor,
	}
}

func TestTokenValidator_RoundTrip(t *testing.T) {
	validator := testValidator()

	token, err := validator.IssueToken(doctorClaims())
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "doctor-456", claims.UserID)
	assert.Equal(t, types.RoleDoctor, claims.Role)
}

func TestTokenValidator_WrongSecret(t *testing.T) {
	token, err := testValidator().IssueToken(doctorClaims())
	require.NoError(t, err)

	other := NewTokenValidator(&config.JWTConfig{
		SecretKey:      "another-secret",
		AccessTokenTTL: 3600,
	})

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenValidator_Garbage(t *testing.T) {
	_, err := testValidator().ValidateToken("not.a.token")
	assert.Error(t, err)
}

func setupTestGuard() (*Guard, *TokenValidator) {
	validator := testValidator()
	metrics := monitoring.NewMetricsCollector("auth-test")
	return NewGuard(validator, metrics, logger.New("debug")), validator
}

func guardedRequest(t *testing.T, guard *Guard, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	var gotDoctorID string
	handler := guard.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDoctorID = DoctorIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/appointments", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code == http.StatusOK {
		assert.NotEmpty(t, gotDoctorID)
	}
	return recorder
}

func TestGuard_AllowsDoctor(t *testing.T) {
	guard, validator := setupTestGuard()

	token, err := validator.IssueToken(doctorClaims())
	require.NoError(t, err)

	recorder := guardedRequest(t, guard, "Bearer "+token)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGuard_RejectsMissingToken(t *testing.T) {
	guard, _ := setupTestGuard()

	recorder := guardedRequest(t, guard, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGuard_RejectsMalformedHeader(t *testing.T) {
	guard, _ := setupTestGuard()

	recorder := guardedRequest(t, guard, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGuard_RejectsNonDoctor(t *testing.T) {
	guard, validator := setupTestGuard()

	token, err := validator.IssueToken(&types.UserClaims{
		UserID:   "patient-123",
		Username: "jane.roe",
		Role:     types.RolePatient,
	})
	require.NoError(t, err)

	recorder := guardedRequest(t, guard, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestDoctorIDFromContext_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, DoctorIDFromContext(req.Context()))
}
