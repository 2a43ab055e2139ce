// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/coursemarket/internal/config"
	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/middleware"
)

type JWTManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	publicJWKS jwk.Set
	config     config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return newJWTManager(privateKey, cfg)
}

func newJWTManager(privateKey jwk.Key, cfg config.JWTConfig) (*JWTManager, error) {
	if err := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}

	// kid is the key's thumbprint so it stays stable across restarts.
	thumb, err := privateKey.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("thumbprint key: %w", err)
	}
	keyID := base64.RawURLEncoding.EncodeToString(thumb)[:16]
	if err := privateKey.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, fmt.Errorf("set key id: %w", err)
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	if err := publicKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	publicJWKS := jwk.NewSet()
	if err := publicJWKS.AddKey(publicKey); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}

	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		publicJWKS: publicJWKS,
		config:     cfg,
	}, nil
}

func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	jwkPrivate, err := jwk.Import(privateKey)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}

	privatePEM, err := jwk.Pem(jwkPrivate)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}

	if err := os.WriteFile(privateKeyPath, privatePEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	jwkPublic, err := jwkPrivate.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	publicPEM, err := jwk.Pem(jwkPublic)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}

	//nolint:gosec // G306: public key is intentionally world-readable
	if err := os.WriteFile(publicKeyPath, publicPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	return nil
}

type AccessTokenClaims struct {
	UserID       string
	Email        string
	Role         string
	TokenVersion int
}

type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

func (m *JWTManager) CreateAccessToken(
	claims AccessTokenClaims,
) (*IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		Expiration(expiresAt).
		NotBefore(now).
		Claim("email", claims.Email).
		Claim("role", claims.Role).
		Claim("token_version", claims.TokenVersion).
		Claim("type", "access").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{Token: string(signed), ExpiresAt: expiresAt}, nil
}

// ParseAccessToken checks signature, issuer, audience and lifetime. It does
// not consult revocation state; Verifier layers that on top.
func (m *JWTManager) ParseAccessToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil || tokenType != "access" {
		return nil, fmt.Errorf("verify token: invalid token type: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("verify token: missing subject: %w", core.ErrTokenInvalid)
	}

	jti, _ := token.JwtID()
	exp, _ := token.Expiration()

	var role string
	if err := token.Get("role", &role); err != nil {
		return nil, fmt.Errorf("verify token: missing role claim: %w", core.ErrTokenInvalid)
	}

	var email string
	_ = token.Get("email", &email) //nolint:errcheck // optional claim

	var version float64
	if err := token.Get("token_version", &version); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing token_version claim: %w",
			core.ErrTokenInvalid,
		)
	}

	return &TokenClaims{
		AccessTokenClaims: middleware.AccessTokenClaims{
			UserID:       subject,
			Email:        email,
			Role:         role,
			TokenVersion: int(version),
		},
		JTI:       jti,
		ExpiresAt: exp,
	}, nil
}

// TokenClaims extends the request identity with the fields needed to revoke
// the token before it expires.
type TokenClaims struct {
	middleware.AccessTokenClaims
	JTI       string
	ExpiresAt time.Time
}

func isTokenExpiredError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.publicJWKS); err != nil {
			core.InternalServerError(w, err)
		}
	}
}

func (m *JWTManager) GetKeyID() string {
	var kid string
	//nolint:errcheck // key ID always set during construction
	_ = m.privateKey.Get(jwk.KeyIDKey, &kid)
	return kid
}

type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

func (m *JWTManager) CreateRefreshToken(familyID string) (*RefreshTokenData, error) {
	token, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.NewString()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      core.HashToken(token),
		ExpiresAt: time.Now().Add(m.config.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}

// Verifier is the request-path token check: a valid signature, a token that
// has not been blacklisted on logout, and a token version no older than the
// user's current one.
type Verifier struct {
	jwt       *JWTManager
	blacklist Blacklist
	versions  TokenVersionSource
}

type TokenVersionSource interface {
	GetTokenVersion(ctx context.Context, userID string) (int, error)
}

func NewVerifier(m *JWTManager, blacklist Blacklist, versions TokenVersionSource) *Verifier {
	return &Verifier{jwt: m, blacklist: blacklist, versions: versions}
}

func (v *Verifier) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := v.jwt.ParseAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	if v.blacklist != nil && claims.JTI != "" {
		revoked, err := v.blacklist.IsRevoked(ctx, claims.JTI)
		if err != nil {
			return nil, fmt.Errorf("check blacklist: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	if v.versions != nil {
		current, err := v.versions.GetTokenVersion(ctx, claims.UserID)
		if err != nil {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
		}
		if claims.TokenVersion < current {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	out := claims.AccessTokenClaims
	return &out, nil
}
