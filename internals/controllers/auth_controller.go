package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/initializers"
	"github.com/svtitarenk/api-library/internals/middleware"
	"github.com/svtitarenk/api-library/internals/models"
	"github.com/svtitarenk/api-library/internals/repository"
	logger "github.com/svtitarenk/api-library/loggers"
)

type SignUpRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone"`
}

type LoginCredentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRedisKeyNotFound   = errors.New("redis key not found")
)

func SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		logger.Logger.Error("failed to hash password : ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user creation failed"})
		return
	}

	user := models.UserProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hash),
		Phone:     req.Phone,
	}
	if err := repository.NewUserRepository(initializers.DB).Create(&user); err != nil {
		logger.Logger.Error("failed to insert user profile into database : ", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "user creation failed"})
		return
	}

	// cache credentials so login can skip the database round trip
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	if err := insertCredentialsToRedis(ctx, user.Email, user.Password); err != nil {
		logger.Logger.Error("failed to insert credentials in redis cache : ", err)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user created successfully"})
}

func LoginUser(c *gin.Context) {
	var credential LoginCredentials
	if err := c.ShouldBindJSON(&credential); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	err := authenticateFromRedis(ctx, credential)
	if errors.Is(err, ErrRedisKeyNotFound) || isRedisDown(err) {
		err = authenticateFromDatabase(credential)
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := middleware.GenerateTokensAndSaveInCookies(c, credential.Email); err != nil {
		logger.Logger.Error("failed to create token : ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": credential.Email + " logged in successfully"})
}

func authenticateFromRedis(ctx context.Context, credential LoginCredentials) error {
	if credential.Email == "" || credential.Password == "" {
		return ErrInvalidCredentials
	}

	userKey := fmt.Sprintf("user:%s", credential.Email)
	result, err := initializers.Client.HGetAll(ctx, userKey).Result()
	if err != nil {
		return err
	}
	hashPassword, isExists := result["password"]
	if !isExists || hashPassword == "" {
		return ErrRedisKeyNotFound
	}
	if err := compareHashPasswords(hashPassword, credential.Password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func authenticateFromDatabase(credential LoginCredentials) error {
	user, err := repository.NewUserRepository(initializers.DB).FindByEmail(credential.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if err := compareHashPasswords(user.Password, credential.Password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func insertCredentialsToRedis(ctx context.Context, email, hashedPassword string) error {
	userKey := fmt.Sprintf("user:%s", email)
	return initializers.Client.HSet(ctx, userKey, map[string]interface{}{
		"email":    email,
		"password": hashedPassword,
	}).Err()
}

func compareHashPasswords(hashPwd, pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashPwd), []byte(pwd))
}

func isRedisDown(err error) bool {
	return err != nil && !errors.Is(err, redis.Nil) &&
		!errors.Is(err, ErrInvalidCredentials) && !errors.Is(err, ErrRedisKeyNotFound)
}
