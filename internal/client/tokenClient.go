package client

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Gatofitnees/Appmovil-sub001/internal/config"
)

const (
	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime  = time.Hour

	// Tokens are dropped from the cache this long before Google's reported
	// expiry so an almost-expired token is never handed to a caller.
	tokenExpiryMargin = 5 * time.Minute
)

// TokenMinter exchanges a signed service-account assertion for a short-lived
// bearer token. The scope is a call argument rather than construction state
// so one minter can serve any Google API scope.
type TokenMinter interface {
	Mint(ctx context.Context, scope string) (string, error)
}

type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	ProjectID   string `json:"project_id"`
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

type tokenMinterImpl struct {
	httpClient *http.Client
	tokenURL   string
	issuer     string
	privateKey *rsa.PrivateKey
	logger     *zap.Logger

	mu    sync.Mutex
	cache map[string]cachedToken
}

// NewTokenMinter parses the service-account credential up front so a
// malformed private key fails here, before any network call is ever made.
func NewTokenMinter(googleCfg *config.Google, logger *zap.Logger) (TokenMinter, error) {
	var sa serviceAccount
	if err := json.Unmarshal([]byte(googleCfg.ServiceAccountJSON), &sa); err != nil {
		return nil, fmt.Errorf("parse service account json: %w", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("service account json missing client_email or private_key")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse service account private key: %w", err)
	}

	return &tokenMinterImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokenURL:   googleCfg.TokenURL,
		issuer:     sa.ClientEmail,
		privateKey: key,
		logger:     logger,
		cache:      make(map[string]cachedToken),
	}, nil
}

func (m *tokenMinterImpl) Mint(ctx context.Context, scope string) (string, error) {
	m.mu.Lock()
	if cached, ok := m.cache[scope]; ok && time.Now().Before(cached.expiresAt) {
		m.mu.Unlock()
		return cached.token, nil
	}
	m.mu.Unlock()

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   m.issuer,
		"sub":   m.issuer,
		"aud":   m.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
		"scope": scope,
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(m.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token assertion: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrantType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token endpoint request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token endpoint error %d: %s", resp.StatusCode, string(b))
	}

	var res struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access token")
	}

	lifetime := time.Duration(res.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = assertionLifetime
	}

	m.mu.Lock()
	m.cache[scope] = cachedToken{
		token:     res.AccessToken,
		expiresAt: now.Add(lifetime - tokenExpiryMargin),
	}
	m.mu.Unlock()

	m.logger.Debug("minted access token",
		zap.String("scope", scope),
		zap.Duration("lifetime", lifetime))

	return res.AccessToken, nil
}
