package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// JwtSecret is overridden from config at startup.
var JwtSecret = []byte("tably-guest-secret")

type GuestClaims struct {
	SessionID string `json:"session_id"`
	OutletID  string `json:"outlet_id"`
	TableID   string `json:"table_id,omitempty"`
	jwt.RegisteredClaims
}

func GenerateGuestToken(sessionID, outletID, tableID string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &GuestClaims{
		SessionID: sessionID,
		OutletID:  outletID,
		TableID:   tableID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   sessionID,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(JwtSecret)
	return s, exp, err
}

func ParseGuestToken(tokenStr string) (*GuestClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &GuestClaims{}, func(t *jwt.Token) (interface{}, error) {
		return JwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*GuestClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("Invalid Token")
}
