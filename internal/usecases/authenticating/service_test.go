package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/apiErrors"
)

func newTestService() *Service {
	return NewService(&config.Config{Auth: config.Auth{Secret: "segredo-de-teste"}}).(*Service)
}

func TestValidateToken(t *testing.T) {
	service := newTestService()

	valid, err := service.GenerateToken(domain.Claims{UserID: 7, UserRoleID: 1, OrganizationUUID: "o1"}, time.Hour)
	require.NoError(t, err)

	expired := signed(t, "segredo-de-teste", domain.Claims{
		OrganizationUUID: "o1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	otherSecret := signed(t, "outro-segredo", domain.Claims{OrganizationUUID: "o1"})
	withoutOrg := signed(t, "segredo-de-teste", domain.Claims{UserID: 1})

	tests := []struct {
		name     string
		token    string
		wantErr  error
		wantCode string
	}{
		{name: "Token válido", token: valid},
		{name: "Token expirado", token: expired, wantErr: ErrExpiredToken, wantCode: apiErrors.ErrExpiredToken},
		{name: "Assinatura de outro segredo", token: otherSecret, wantErr: ErrInvalidToken, wantCode: apiErrors.ErrInvalidToken},
		{name: "Token sem organização", token: withoutOrg, wantErr: ErrInvalidToken, wantCode: apiErrors.ErrInvalidToken},
		{name: "Texto qualquer", token: "abc.def", wantErr: ErrInvalidToken, wantCode: apiErrors.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, tt.wantCode, authErr.Code)
				assert.True(t, IsAuthorizationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, claims.UserID)
			assert.Equal(t, "o1", claims.OrganizationUUID)
		})
	}
}

func TestGenerateToken_SemOrganizacao(t *testing.T) {
	_, err := newTestService().GenerateToken(domain.Claims{UserID: 1}, time.Hour)
	assert.ErrorIs(t, err, ErrMissingRequiredData)
}

func signed(t *testing.T, secret string, claims domain.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
