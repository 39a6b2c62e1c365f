package middleware

import (
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-observations/internal/api/shared/errors"
	"github.com/feral-file/ff-observations/internal/logger"
)

const (
	AUTH_TYPE_KEY = "auth_type"
	CALLER_KEY    = "caller"

	AUTH_TYPE_JWT    = "jwt"
	AUTH_TYPE_APIKEY = "apikey"

	// jwtLeeway tolerates clock skew between the token issuer and the node
	jwtLeeway = 30 * time.Second
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// credential is what a valid Authorization header proves
type credential struct {
	authType string
	subject  string
}

// authenticator verifies Authorization headers. Keys are parsed once when the
// middleware is built.
type authenticator struct {
	publicKey *rsa.PublicKey
	keyErr    error
	apiKeys   [][]byte
	parser    *jwt.Parser
}

func newAuthenticator(cfg AuthConfig) *authenticator {
	a := &authenticator{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
			jwt.WithLeeway(jwtLeeway),
		),
	}

	if cfg.JWTPublicKey == "" {
		a.keyErr = errors.New("JWT public key not configured")
	} else if a.publicKey, a.keyErr = parseRSAPublicKey(cfg.JWTPublicKey); a.keyErr != nil {
		logger.Error(a.keyErr, zap.String("message", "Invalid JWT public key, bearer tokens will be rejected"))
	}

	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys = append(a.apiKeys, []byte(key))
		}
	}
	return a
}

func (a *authenticator) authenticate(header string) (credential, error) {
	if header == "" {
		return credential{}, errors.New("missing Authorization header")
	}
	scheme, value, ok := strings.Cut(header, " ")
	if !ok || value == "" {
		return credential{}, errors.New("invalid Authorization header format")
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := a.verifyJWT(value)
		if err != nil {
			return credential{}, err
		}
		return credential{authType: AUTH_TYPE_JWT, subject: claims.Subject}, nil
	case "apikey":
		if err := a.verifyAPIKey(value); err != nil {
			return credential{}, err
		}
		return credential{authType: AUTH_TYPE_APIKEY}, nil
	default:
		return credential{}, fmt.Errorf("unsupported authorization type: %s", scheme)
	}
}

// verifyJWT checks the RSA signature plus exp and nbf when present
func (a *authenticator) verifyJWT(token string) (*jwt.RegisteredClaims, error) {
	if a.keyErr != nil {
		return nil, a.keyErr
	}

	claims := &jwt.RegisteredClaims{}
	_, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

func (a *authenticator) verifyAPIKey(key string) error {
	if len(a.apiKeys) == 0 {
		return errors.New("no API keys configured")
	}
	for _, valid := range a.apiKeys {
		if subtle.ConstantTimeCompare(valid, []byte(key)) == 1 {
			return nil
		}
	}
	return errors.New("invalid API key")
}

func rejectUnauthorized(c *gin.Context, err error) {
	logger.WarnCtx(c.Request.Context(), "Authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Authentication failed", err.Error()))
}

// CallerAuth admits ledger writes. The request must carry a JWT whose subject
// is the caller's address; that address is what CallerFromContext returns.
// API keys authenticate but name no caller, so they are refused here.
func CallerAuth(cfg AuthConfig) gin.HandlerFunc {
	a := newAuthenticator(cfg)
	return func(c *gin.Context) {
		cred, err := a.authenticate(c.GetHeader("Authorization"))
		if err != nil {
			rejectUnauthorized(c, err)
			return
		}

		if cred.authType != AUTH_TYPE_JWT || !common.IsHexAddress(cred.subject) {
			logger.WarnCtx(c.Request.Context(), "Credential names no caller",
				zap.String("authType", cred.authType),
				zap.String("path", c.Request.URL.Path),
			)
			details := "API keys cannot act on the ledger"
			if cred.authType == AUTH_TYPE_JWT {
				details = fmt.Sprintf("JWT subject is not an address: %q", cred.subject)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.NewCallerIdentityRequiredError(details))
			return
		}

		caller := common.HexToAddress(cred.subject)
		c.Set(AUTH_TYPE_KEY, cred.authType)
		c.Set(CALLER_KEY, caller)
		logger.DebugCtx(c.Request.Context(), "Caller authenticated",
			zap.String("caller", caller.Hex()),
			zap.String("path", c.Request.URL.Path),
		)
		c.Next()
	}
}

// APIKeyAuth admits operator endpoints such as the devnet faucet
func APIKeyAuth(cfg AuthConfig) gin.HandlerFunc {
	a := newAuthenticator(cfg)
	return func(c *gin.Context) {
		cred, err := a.authenticate(c.GetHeader("Authorization"))
		if err == nil && cred.authType != AUTH_TYPE_APIKEY {
			err = errors.New("API key required")
		}
		if err != nil {
			rejectUnauthorized(c, err)
			return
		}

		c.Set(AUTH_TYPE_KEY, cred.authType)
		c.Next()
	}
}

// CallerFromContext returns the address CallerAuth admitted
func CallerFromContext(c *gin.Context) (common.Address, error) {
	v, ok := c.Get(CALLER_KEY)
	if !ok {
		return common.Address{}, errors.New("request has no caller identity")
	}
	caller, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected caller type %T", v)
	}
	return caller, nil
}

// parseRSAPublicKey accepts PKIX and PKCS1 encoded keys
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}
	return rsaKey, nil
}
