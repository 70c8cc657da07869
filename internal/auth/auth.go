package auth

import (
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultAccessTtl  time.Duration = 30 * time.Minute
	defaultRefreshTtl time.Duration = 7 * 24 * time.Hour
)

// Claims mirror the token payload of the original api: the registered
// claims plus the user's identity so the service never needs a database
// round trip to authorize a request.
type Claims struct {
	UserId    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type Auth interface {
	//GeneratePair creates an access/refresh token pair for a user
	GeneratePair(user *data.User) (*data.TokenPair, error)

	//ValidateToken parses a token and validates its signature, expiry
	// and token type
	ValidateToken(tokenString, tokenType string) (*Claims, error)
}

type jwtAuth struct {
	sync.RWMutex
	utilities.Logger
	config struct {
		secret     string
		accessTtl  time.Duration
		refreshTtl time.Duration
	}
}

func NewAuth(parameters ...any) interface {
	internal.Configurer
	Auth
} {
	a := &jwtAuth{}
	a.config.accessTtl = defaultAccessTtl
	a.config.refreshTtl = defaultRefreshTtl
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			a.Logger = p
		}
	}
	if a.Logger == nil {
		a.Logger = utilities.NewLogger()
	}
	return a
}

func (a *jwtAuth) Configure(envs map[string]string) error {
	a.Lock()
	defer a.Unlock()

	if secret, ok := envs["AUTH_JWT_SECRET"]; ok {
		a.config.secret = secret
	}
	if s, ok := envs["AUTH_ACCESS_TTL"]; ok && s != "" {
		seconds, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		a.config.accessTtl = time.Duration(seconds) * time.Second
	}
	if s, ok := envs["AUTH_REFRESH_TTL"]; ok && s != "" {
		seconds, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		a.config.refreshTtl = time.Duration(seconds) * time.Second
	}
	if a.config.secret == "" {
		return errors.New("AUTH_JWT_SECRET not set")
	}
	return nil
}

func (a *jwtAuth) generateToken(claims *Claims, tokenType string, ttl time.Duration) (string, error) {
	a.RLock()
	defer a.RUnlock()

	now := time.Now()
	claims.TokenType = tokenType
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(claims.UserId, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.Must(uuid.NewRandom()).String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.config.secret))
}

func (a *jwtAuth) GeneratePair(user *data.User) (*data.TokenPair, error) {
	claimsFx := func() *Claims {
		return &Claims{
			UserId:    user.Id,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsStaff:   user.IsStaff,
		}
	}
	refresh, err := a.generateToken(claimsFx(), data.TokenTypeRefresh, a.config.refreshTtl)
	if err != nil {
		return nil, err
	}
	access, err := a.generateToken(claimsFx(), data.TokenTypeAccess, a.config.accessTtl)
	if err != nil {
		return nil, err
	}
	return &data.TokenPair{
		Refresh: refresh,
		Access:  access,
	}, nil
}

func (a *jwtAuth) ValidateToken(tokenString, tokenType string) (*Claims, error) {
	a.RLock()
	secret := a.config.secret
	a.RUnlock()

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method: %v",
					token.Header["alg"])
			}
			return []byte(secret), nil
		})
	if err != nil || !token.Valid {
		return nil, data.ErrTokenInvalid
	}
	if claims.TokenType != tokenType {
		return nil, data.ErrTokenInvalid
	}
	return claims, nil
}
