package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/svtitarenk/api-library/initializers"
	logger "github.com/svtitarenk/api-library/loggers"
)

type AccessDetails struct {
	AccessUuid string
	Email      string
}

type RefreshDetails struct {
	RefreshUuid string
	Email       string
}

type TokenPair struct {
	AccessToken  string
	AccessUuid   string
	AtExpires    int64
	RefreshToken string
	RefreshUuid  string
	RtExpires    int64
}

func GenerateTokensAndSaveInCookies(c *gin.Context, email string) error {
	tokenPair, err := CreateTokenPair(email)
	if err != nil {
		logger.Logger.Error("failed to create token pair : ", err)
		return err
	}
	if err := SaveTokenPair(tokenPair, email); err != nil {
		logger.Logger.Error("failed to save tokens in redis : ", err)
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", tokenPair.AccessToken, 3600, "/", "", false, true)
	c.SetCookie("refresh_token", tokenPair.RefreshToken, 7*24*3600, "/", "", false, true)
	return nil
}

func CreateTokenPair(email string) (*TokenPair, error) {
	var err error
	token := &TokenPair{
		AtExpires:   time.Now().Add(time.Minute * 15).Unix(),   // Access token expires in 15 mins
		RtExpires:   time.Now().Add(time.Hour * 24 * 7).Unix(), // Refresh token expires in 7 days
		AccessUuid:  uuid.New().String(),                       // used for storing meta data in redis
		RefreshUuid: uuid.New().String(),                       // used for storing meta data in redis
	}

	atClaims := jwt.MapClaims{
		"authorized":  true,
		"access_uuid": token.AccessUuid,
		"email":       email,
		"exp":         token.AtExpires,
	}
	at := jwt.NewWithClaims(jwt.SigningMethodHS256, atClaims)
	token.AccessToken, err = at.SignedString([]byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		logger.Logger.Error("signing of access token failed : ", err)
		return nil, err
	}

	rtClaims := jwt.MapClaims{
		"refresh_uuid": token.RefreshUuid,
		"email":        email,
		"exp":          token.RtExpires,
	}
	rt := jwt.NewWithClaims(jwt.SigningMethodHS256, rtClaims)
	token.RefreshToken, err = rt.SignedString([]byte(os.Getenv("REFRESH_SECRET")))
	if err != nil {
		logger.Logger.Error("signing of refresh token failed : ", err)
		return nil, err
	}
	return token, nil
}

func SaveTokenPair(tokenObj *TokenPair, email string) error {
	at := time.Unix(tokenObj.AtExpires, 0)
	rt := time.Unix(tokenObj.RtExpires, 0)
	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Store access token metadata
	if err := initializers.Client.Set(ctx, tokenObj.AccessUuid, email, at.Sub(now)).Err(); err != nil {
		logger.Logger.Error("failed to insert access token in redis : ", err)
		return err
	}
	// Store refresh token metadata
	if err := initializers.Client.Set(ctx, tokenObj.RefreshUuid, email, rt.Sub(now)).Err(); err != nil {
		logger.Logger.Error("failed to insert refresh token in redis : ", err)
		return err
	}
	return nil
}

// AuthenticateMiddleware guards the /api group. It resolves the caller's
// email from the access token (falling back to the refresh token flow when
// the access token is missing or stale) and stores it in the gin context.
func AuthenticateMiddleware(c *gin.Context) {
	tokenString, err := c.Cookie("access_token")
	if err != nil {
		RefreshTokenFlow(c)
		return
	}
	accessTokenMetaData, err := extractAccessTokenMetadata(tokenString)
	if err != nil {
		logger.Logger.Error("access token meta data failed : ", err)
		RefreshTokenFlow(c)
		return
	}
	email, err := FetchAuth(accessTokenMetaData)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired or invalid"})
		return
	}
	c.Set("email", email)
	c.Next()
}

func extractAccessTokenMetadata(tokenString string) (*AccessDetails, error) {
	secret := os.Getenv("ACCESS_SECRET")
	if secret == "" {
		return nil, errors.New("ACCESS_SECRET is not set")
	}
	claims, err := extractTokenMetadata(tokenString, secret, []string{"access_uuid", "email"})
	if err != nil {
		return nil, err
	}
	return &AccessDetails{
		AccessUuid: claims["access_uuid"].(string),
		Email:      claims["email"].(string),
	}, nil
}

func extractRefreshTokenMetadata(refreshString string) (*RefreshDetails, error) {
	secret := os.Getenv("REFRESH_SECRET")
	if secret == "" {
		return nil, errors.New("REFRESH_SECRET is not set")
	}
	claims, err := extractTokenMetadata(refreshString, secret, []string{"refresh_uuid", "email"})
	if err != nil {
		return nil, err
	}
	return &RefreshDetails{
		RefreshUuid: claims["refresh_uuid"].(string),
		Email:       claims["email"].(string),
	}, nil
}

func extractTokenMetadata(tokenString string, secret string, expectedClaims []string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	for _, claim := range expectedClaims {
		if _, ok := claims[claim]; !ok {
			return nil, fmt.Errorf("missing required claim: %s", claim)
		}
	}
	return claims, nil
}

// RefreshTokenFlow rotates the token pair off a valid refresh token, so an
// expired access token does not bounce the request.
func RefreshTokenFlow(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "refresh token missing"})
		return
	}

	refreshTokenDetails, err := extractRefreshTokenMetadata(refreshToken)
	if err != nil {
		logger.Logger.Error("failed to extract refresh meta data : ", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	if err := GenerateTokensAndSaveInCookies(c, refreshTokenDetails.Email); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to rotate tokens"})
		return
	}
	c.Set("email", refreshTokenDetails.Email)
	c.Next()
}

func FetchAuth(metadata *AccessDetails) (string, error) {
	return initializers.Client.Get(context.Background(), metadata.AccessUuid).Result()
}
