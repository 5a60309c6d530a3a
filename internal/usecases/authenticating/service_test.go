package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-pipeline/internal/config"
	"github.com/vfg2006/sales-pipeline/internal/domain"
)

func newTestService(secret string, now time.Time) *Service {
	cfg := &config.Config{Auth: config.Auth{Secret: secret}}
	svc := NewService(cfg).(*Service)
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_GenerateAndValidate(t *testing.T) {
	now := time.Now()
	svc := newTestService("segredo", now)

	token, err := svc.GenerateToken(" ana ", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Operator)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "ana", claims.Subject)
}

func TestService_ValidateToken(t *testing.T) {
	now := time.Now()
	svc := newTestService("segredo", now)

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name: "token expirado",
			token: func(t *testing.T) string {
				old := newTestService("segredo", now.Add(-2*time.Hour))
				token, err := old.GenerateToken("ana", domain.RoleOperator, time.Hour)
				require.NoError(t, err)
				return token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "assinado com outro segredo",
			token: func(t *testing.T) string {
				other := newTestService("outro", now)
				token, err := other.GenerateToken("ana", domain.RoleOperator, time.Hour)
				require.NoError(t, err)
				return token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "lixo",
			token: func(t *testing.T) string {
				return "abc.def.ghi"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "role desconhecida",
			token: func(t *testing.T) string {
				claims := &domain.Claims{
					Operator: "ana",
					Role:     "root",
					RegisteredClaims: jwt.RegisteredClaims{
						Issuer:    issuer,
						ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
					},
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo"))
				require.NoError(t, err)
				return token
			},
			wantErr: ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_MissingSecret(t *testing.T) {
	svc := newTestService("", time.Now())

	_, err := svc.GenerateToken("ana", domain.RoleAdmin, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = svc.ValidateToken("qualquer")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestService_GenerateTokenValidation(t *testing.T) {
	svc := newTestService("segredo", time.Now())

	_, err := svc.GenerateToken("  ", domain.RoleAdmin, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = svc.GenerateToken("ana", "root", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidRole)
}
