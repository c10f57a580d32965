package jwtutil

import (
	"goods-tracker/pkg/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationTime: time.Hour})

	token, err := GenerateAdminToken("cblprolog")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cblprolog", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateRejectsForeignKey(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "key-one", ExpirationTime: time.Hour})
	token, err := GenerateAdminToken("cblprolog")
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "key-two", ExpirationTime: time.Hour})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}
