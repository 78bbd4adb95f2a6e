// Package token issues and verifies the signed session token carried in the
// session cookie. It is stateless: nothing is stored server side.
package token

import (
	"errors"
	"fmt"
	"time"

	"intranet/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
)

// Claims defines the structure of the JWT claims.
type Claims struct {
	EmployeeID   int64  `json:"id_empleado"`
	DepartmentID int64  `json:"id_departamento"`
	Role         string `json:"rol"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with an HMAC secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue returns a signed token for id and the instant it stops being valid.
func (c *Codec) Issue(id models.Identity) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.ttl)
	claims := &Claims{
		EmployeeID:   id.EmployeeID,
		DepartmentID: id.DepartmentID,
		Role:         string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", id.EmployeeID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Decode verifies tokenString and returns the identity it carries.
func (c *Codec) Decode(tokenString string) (models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is what we expect
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, ErrTokenExpired
		}
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.EmployeeID <= 0 || claims.DepartmentID <= 0 {
		return models.Identity{}, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}

	return models.Identity{
		EmployeeID:   claims.EmployeeID,
		DepartmentID: claims.DepartmentID,
		Role:         role,
	}, nil
}
