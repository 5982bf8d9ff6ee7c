package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AuthContextKey   = "user_id"
	ClaimsContextKey = "claims"
)

var jwtSecret = "fallback-secret"

// Claims represents JWT claims
type Claims struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SetJWTSecret sets the JWT secret for the middleware
func SetJWTSecret(secret string) {
	if secret != "" {
		jwtSecret = secret
	}
}

// JWTAuth middleware validates Bearer tokens
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c.GetHeader("Authorization"))
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(AuthContextKey, claims.UserID)
		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and never
// rejects the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c.GetHeader("Authorization")); ok {
			c.Set(AuthContextKey, claims.UserID)
			c.Set(ClaimsContextKey, claims)
		}
		c.Next()
	}
}

func parseBearer(authHeader string) (*Claims, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if tokenString == "" {
		return nil, false
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	return claims, ok
}

// GenerateToken generates a JWT token for a user
func GenerateToken(userID int64, email, username string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(AuthContextKey)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int64)
	return id, ok
}

// GetClaims retrieves the parsed token claims from the context
func GetClaims(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(ClaimsContextKey)
	if !exists {
		return nil, false
	}

	claims, ok := value.(*Claims)
	return claims, ok
}
