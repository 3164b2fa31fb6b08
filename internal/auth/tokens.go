package auth

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/foodgramapp/foodgram-server/internal/domain"
)

const (
	tokenIssuer   = "foodgram-server"
	tokenAudience = "foodgram-client"

	keyBytesSize = 32
	keyHexSize   = 64
)

// ErrInvalidToken is returned for tokens that fail decryption or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the encrypted contents of an access token.
type Claims struct {
	UserID    string      `json:"sub"`
	SessionID string      `json:"jti"`
	Role      domain.Role `json:"role"`
	IssuedAt  time.Time   `json:"iat"`
	ExpiresAt time.Time   `json:"exp"`
}

// TokenService issues and verifies PASETO v4.local access tokens.
// Every token names the login session it belongs to; deleting the
// session revokes the token.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	lifetime     time.Duration
}

// NewTokenService creates a token service from a hex-encoded 32-byte key.
func NewTokenService(keyHex string, lifetime time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("create PASETO symmetric key: %w", err)
	}

	if lifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}

	return &TokenService{symmetricKey: key, lifetime: lifetime}, nil
}

// Lifetime returns how long issued tokens stay valid.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue encrypts a token for the user bound to the session.
func (s *TokenService) Issue(user *domain.User, session *domain.Session) string {
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(user.ID)
	token.SetJti(session.ID)
	token.SetIssuedAt(session.CreatedAt)
	token.SetNotBefore(session.CreatedAt)
	token.SetExpiration(session.ExpiresAt)
	//nolint:errcheck // Set only fails on unmarshalable values
	_ = token.Set("role", string(user.Role))

	return token.V4Encrypt(s.symmetricKey, nil)
}

// Verify decrypts a token and checks issuer, audience and validity window.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims Claims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing subject or session", ErrInvalidToken)
	}
	return &claims, nil
}
