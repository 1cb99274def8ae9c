package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleCashier    Role = "cashier"    // kasiyer: oturum ve hareketler
	RoleSupervisor Role = "supervisor" // tesoreri kayıtları ve transferler
)

func (r Role) Valid() bool {
	return r == RoleCashier || r == RoleSupervisor
}

// Operator is the identity the external identity provider vouches for.
type Operator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type JWTCustomClaims struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token whose subject is the operator ID.
func GenerateToken(secret string, ttl time.Duration, op Operator) (string, error) {
	if op.ID == "" {
		return "", fmt.Errorf("operator id boş olamaz")
	}
	if !op.Role.Valid() {
		return "", fmt.Errorf("geçersiz rol: %q", op.Role)
	}
	now := time.Now()
	claims := &JWTCustomClaims{
		Name: op.Name,
		Role: op.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and returns the operator.
func ParseToken(secret, tokenStr string) (Operator, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("geçersiz imzalama yöntemi")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Operator{}, err
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return Operator{}, fmt.Errorf("token çözümlenemedi")
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return Operator{}, fmt.Errorf("token kimlik bilgisi eksik")
	}
	return Operator{ID: claims.Subject, Name: claims.Name, Role: claims.Role}, nil
}
