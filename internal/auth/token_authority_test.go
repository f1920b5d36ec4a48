package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenAuthority_IssueAndVerify(t *testing.T) {
	authority := NewTokenAuthority("test-secret")
	subject := uuid.New()

	token, err := authority.Issue(subject)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := authority.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, subject, got)
}

func TestTokenAuthority_TwoTokensForSameSubjectBothValid(t *testing.T) {
	authority := NewTokenAuthority("test-secret")
	subject := uuid.New()

	first, err := authority.Issue(subject)
	require.NoError(t, err)
	second, err := authority.Issue(subject)
	require.NoError(t, err)

	got, err := authority.Verify(first)
	require.NoError(t, err)
	assert.Equal(t, subject, got)

	got, err = authority.Verify(second)
	require.NoError(t, err)
	assert.Equal(t, subject, got)
}

func TestTokenAuthority_VerifyRejectsExpired(t *testing.T) {
	authority := &TokenAuthority{secret: []byte("test-secret"), ttl: -time.Minute}

	token, err := authority.Issue(uuid.New())
	require.NoError(t, err)

	_, err = authority.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenAuthority_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenAuthority("secret-a")
	verifier := NewTokenAuthority("secret-b")

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenAuthority_VerifyRejectsGarbage(t *testing.T) {
	authority := NewTokenAuthority("test-secret")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := authority.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenAuthority_VerifyRejectsNonUUIDSubject(t *testing.T) {
	authority := NewTokenAuthority("test-secret")

	// Validly signed but the subject is not a user id.
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "bob",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = authority.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
