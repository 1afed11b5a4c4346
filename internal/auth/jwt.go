package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VideoGrants carries the room permissions embedded in a media access
// token, in the shape the voice engine expects.
type VideoGrants struct {
	Room           string `json:"room"`
	RoomJoin       bool   `json:"roomJoin"`
	CanPublish     bool   `json:"canPublish"`
	CanSubscribe   bool   `json:"canSubscribe"`
	CanPublishData bool   `json:"canPublishData"`
}

// RoomClaims is the full claim set of a media access token.
type RoomClaims struct {
	Name  string      `json:"name,omitempty"`
	Video VideoGrants `json:"video"`
	jwt.RegisteredClaims
}

// UserClaims is the claim set of an API session token issued at login.
type UserClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints media access tokens and API session tokens. The API key
// and secret pair is shared with the voice engine; the engine verifies room
// tokens against the same secret.
type TokenIssuer struct {
	apiKey    string
	apiSecret []byte
}

// NewTokenIssuer creates an issuer from the engine credential pair.
func NewTokenIssuer(apiKey, apiSecret string) *TokenIssuer {
	return &TokenIssuer{apiKey: apiKey, apiSecret: []byte(apiSecret)}
}

// RoomToken mints a token letting participantName join roomName with full
// publish and subscribe permissions. Valid for six hours, the length of the
// longest supported call.
func (i *TokenIssuer) RoomToken(roomName, participantName string) (string, error) {
	now := time.Now()
	claims := &RoomClaims{
		Name: participantName,
		Video: VideoGrants{
			Room:           roomName,
			RoomJoin:       true,
			CanPublish:     true,
			CanSubscribe:   true,
			CanPublishData: true,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.apiKey,
			Subject:   participantName,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(6 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.apiSecret)
}

// UserToken mints an API session token for a logged-in customer. Valid for
// seven days.
func (i *TokenIssuer) UserToken(email string) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.apiKey,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.apiSecret)
}

// ValidateUserToken parses and verifies an API session token.
func (i *TokenIssuer) ValidateUserToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.apiSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
