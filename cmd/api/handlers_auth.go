package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/database"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/middleware"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// signup handles POST /api/v1/auth/signup
func (api *API) signup(c *gin.Context) {
	if api.users == nil {
		unavailable(c, "Accounts")
		return
	}

	var req models.SignupRequest
	_ = c.ShouldBindJSON(&req)
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	ctx := c.Request.Context()
	exists, err := api.users.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		api.respondError(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		api.respondError(c, err)
		return
	}

	user := &models.User{Email: req.Email, Username: req.Username, PasswordHash: string(hash)}
	err = api.users.CreateUser(ctx, user)
	if errors.Is(err, database.ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}
	if err != nil {
		api.respondError(c, err)
		return
	}

	api.respondWithToken(c, http.StatusCreated, "Signup successful", user)
}

// signin handles POST /api/v1/auth/signin; username may also be an email
func (api *API) signin(c *gin.Context) {
	if api.users == nil {
		unavailable(c, "Accounts")
		return
	}

	var req models.SigninRequest
	_ = c.ShouldBindJSON(&req)
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := api.users.GetUserByLogin(c.Request.Context(), req.Username)
	if errors.Is(err, database.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		api.respondError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	api.respondWithToken(c, http.StatusOK, "Login successful", user)
}

func (api *API) respondWithToken(c *gin.Context, status int, message string, user *models.User) {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.Username, api.tokenTTL)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(status, models.AuthResponse{Message: message, Token: token, User: user.View()})
}

type interestsRequest struct {
	Interests *[]string `json:"interests"`
}

// updateInterests handles PUT /api/v1/users/me/interests
func (api *API) updateInterests(c *gin.Context) {
	if api.users == nil {
		unavailable(c, "Accounts")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req interestsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Interests == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Interests must be an array"})
		return
	}

	err := api.users.UpdateInterests(c.Request.Context(), userID, *req.Interests)
	if errors.Is(err, database.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interests updated successfully"})
}
