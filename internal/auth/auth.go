package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	apperrors "postcraft_go_backend/internal/errors"
	"postcraft_go_backend/internal/models"
	"postcraft_go_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// AuthMiddleware verifies the bearer token, upserts the account record and
// sets it in the context under "user".
func AuthMiddleware(ledger *services.AccountUsageLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := Authenticate(c, ledger)
		if err != nil {
			apperrors.HandleError(c, err)
			c.Abort()
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// Authenticate resolves the caller's account from the Authorization header.
// Exposed separately so routes with optional auth can call it only when a
// token is present.
func Authenticate(c *gin.Context, ledger *services.AccountUsageLedger) (*models.User, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, apperrors.NewUnauthorizedError("Missing or invalid authorization token.")
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 {
		return nil, apperrors.NewUnauthorizedError("Missing or invalid authorization token.")
	}

	claims, err := verifyToken(bearerToken[1])
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Token verification failed.")
	}

	authID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if authID == "" {
		return nil, apperrors.NewUnauthorizedError("Token verification failed.")
	}

	user, err := ledger.GetOrCreate(authID, email, name)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CurrentUser pulls the authenticated account out of the gin context.
func CurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get("user")
	if !exists {
		return nil, apperrors.NewUnauthorizedError("Missing or invalid authorization token.")
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil, apperrors.NewUnauthorizedError("Missing or invalid authorization token.")
	}
	return user, nil
}

func verifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		cert, err := getPemCert(token)
		if err != nil {
			return nil, err
		}

		return jwt.ParseRSAPublicKeyFromPEM([]byte(cert))
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

func getPemCert(token *jwt.Token) (string, error) {
	cert := ""
	resp, err := http.Get(fmt.Sprintf("https://%s/.well-known/jwks.json", os.Getenv("AUTH_DOMAIN")))
	if err != nil {
		return cert, err
	}
	defer resp.Body.Close()

	var jwks = struct {
		Keys []struct {
			Kty string   `json:"kty"`
			Kid string   `json:"kid"`
			Use string   `json:"use"`
			N   string   `json:"n"`
			E   string   `json:"e"`
			X5c []string `json:"x5c"`
		} `json:"keys"`
	}{}

	err = json.NewDecoder(resp.Body).Decode(&jwks)
	if err != nil {
		return cert, err
	}

	for k := range jwks.Keys {
		if token.Header["kid"] == jwks.Keys[k].Kid {
			cert = "-----BEGIN CERTIFICATE-----\n" + jwks.Keys[k].X5c[0] + "\n-----END CERTIFICATE-----"
		}
	}

	if cert == "" {
		return cert, errors.New("unable to find appropriate key")
	}

	return cert, nil
}
