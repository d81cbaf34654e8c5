package appstore

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/gbrlsnchs/jwt/v3"
	"golang.org/x/oauth2"

	"github.com/kapu/localization-connect-go/internal/constants"
)

// LoadPrivateKey reads an App Store Connect .p8 key (PKCS#8 PEM, P-256).
func LoadPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key %s: %w", path, err)
	}
	return ParsePrivateKey(data)
}

func ParsePrivateKey(data []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("private key is not PEM encoded")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		ecKey, ecErr := x509.ParseECPrivateKey(block.Bytes)
		if ecErr != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		return ecKey, nil
	}

	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is %T, want ECDSA", parsed)
	}
	return key, nil
}

// TokenSource mints a fresh ES256 bearer token on every call. Wrapped in an
// oauth2.Transport it signs each request independently.
type TokenSource struct {
	keyID    string
	issuerID string
	alg      *jwt.ECDSASHA
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenSource(keyID, issuerID string, key *ecdsa.PrivateKey) *TokenSource {
	return &TokenSource{
		keyID:    keyID,
		issuerID: issuerID,
		alg:      jwt.NewES256(jwt.ECDSAPrivateKey(key)),
		lifetime: constants.AppStoreConfig.TokenLifetime,
		now:      time.Now,
	}
}

func (ts *TokenSource) Token() (*oauth2.Token, error) {
	now := ts.now()
	expiry := now.Add(ts.lifetime)

	payload := jwt.Payload{
		Issuer:         ts.issuerID,
		Audience:       jwt.Audience{constants.AppStoreConfig.Audience},
		IssuedAt:       jwt.NumericDate(now),
		ExpirationTime: jwt.NumericDate(expiry),
	}

	token, err := jwt.Sign(payload, ts.alg, jwt.KeyID(ts.keyID))
	if err != nil {
		return nil, fmt.Errorf("sign App Store Connect token: %w", err)
	}

	return &oauth2.Token{
		AccessToken: string(token),
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}
