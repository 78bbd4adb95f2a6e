package token

import (
	"strings"
	"testing"
	"time"

	"intranet/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IssueAndDecode(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	id := models.Identity{EmployeeID: 7, DepartmentID: 3, Role: models.RoleGerente}

	t.Run("Should round trip the identity", func(t *testing.T) {
		tok, expiresAt, err := codec.Issue(id)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		got, err := codec.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		other := NewCodec("other-secret", time.Hour)
		tok, _, err := other.Issue(id)
		require.NoError(t, err)

		_, err = codec.Decode(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject a tampered payload", func(t *testing.T) {
		tok, _, err := codec.Issue(id)
		require.NoError(t, err)
		forged, _, err := NewCodec("x", time.Hour).Issue(models.Identity{EmployeeID: 7, DepartmentID: 3, Role: models.RoleJefe})
		require.NoError(t, err)

		parts := strings.Split(tok, ".")
		forgedParts := strings.Split(forged, ".")
		tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

		_, err = codec.Decode(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject malformed input", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "a.b.c"} {
			_, err := codec.Decode(raw)
			assert.ErrorIs(t, err, ErrInvalidToken, raw)
		}
	})

	t.Run("Should report expiry as both expired and invalid", func(t *testing.T) {
		past := NewCodec("test-secret", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tok, _, err := past.Issue(id)
		require.NoError(t, err)

		_, err = codec.Decode(tok)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject unsigned tokens", func(t *testing.T) {
		claims := &Claims{
			EmployeeID:   7,
			DepartmentID: 3,
			Role:         "jefe",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Decode(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should read the role case-insensitively", func(t *testing.T) {
		claims := &Claims{
			EmployeeID:   7,
			DepartmentID: 3,
			Role:         " JEFE",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		got, err := codec.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, models.RoleJefe, got.Role)
	})

	t.Run("Should reject unknown roles", func(t *testing.T) {
		claims := &Claims{
			EmployeeID:   7,
			DepartmentID: 3,
			Role:         "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = codec.Decode(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
