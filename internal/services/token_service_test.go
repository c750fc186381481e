package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-one")
	verifier := NewTokenService("secret-two")

	token, err := issuer.Issue(1)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("test-secret")

	issuedAt := time.Now().Add(-25 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(7)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_ValidForFullDay(t *testing.T) {
	svc := NewTokenService("test-secret")

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(7)
	require.NoError(t, err)

	// Just inside the 24h window.
	svc.now = func() time.Time { return issuedAt.Add(23*time.Hour + 59*time.Minute) }
	userID, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint64(7), userID)
}
