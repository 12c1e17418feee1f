package usecase

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

type adminTokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AdminAuthUseCase struct {
	Username string
	Password string
	Secret   []byte
	TTL      time.Duration
	Now      func() time.Time
}

func NewAdminAuthUseCase(username, password, secret string, ttl time.Duration) *AdminAuthUseCase {
	return &AdminAuthUseCase{
		Username: username,
		Password: password,
		Secret:   []byte(secret),
		TTL:      ttl,
		Now:      time.Now,
	}
}

func (uc *AdminAuthUseCase) configured() error {
	if uc.Username == "" || uc.Password == "" || len(uc.Secret) == 0 {
		return &TechnicalError{Code: CodeAdminNotConfigured, Message: "Admin access not configured"}
	}
	return nil
}

func (uc *AdminAuthUseCase) Login(input AdminLoginInput) (*AdminLoginOutput, error) {
	if err := uc.configured(); err != nil {
		return nil, err
	}

	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(uc.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(uc.Password)) == 1
	if !userOK || !passOK {
		return nil, &DomainError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}
	}

	now := uc.Now()
	claims := adminTokenClaims{
		Username: input.Username,
		Role:     RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.TTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.Secret)
	if err != nil {
		return nil, &TechnicalError{Code: CodeTokenSigning, Message: "Authentication failed", Err: err}
	}

	return &AdminLoginOutput{Success: true, Token: token, Message: "Login successful"}, nil
}

// Verify parses a bearer token and requires the admin role. No token is
// accepted while admin credentials are unset.
func (uc *AdminAuthUseCase) Verify(token string) (*AdminClaims, error) {
	if err := uc.configured(); err != nil {
		return nil, err
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &DomainError{Code: CodeInvalidToken, Message: "No token provided"}
	}

	var claims adminTokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return uc.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(uc.Now),
	)
	if err != nil {
		return nil, &DomainError{Code: CodeInvalidToken, Message: "Invalid token"}
	}

	if claims.Role != RoleAdmin {
		return nil, &DomainError{Code: CodeForbidden, Message: "Insufficient permissions"}
	}

	return &AdminClaims{Username: claims.Username, Role: claims.Role}, nil
}
