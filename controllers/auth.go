package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/WideDream/sto-mana/models"
	"github.com/WideDream/sto-mana/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	DB           *gorm.DB
	Secret       string
	ExpiryHours  int
	SecureCookie bool
}

func NewAuthController(db *gorm.DB, secret string, expiryHours int, secureCookie bool) *AuthController {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &AuthController{DB: db, Secret: secret, ExpiryHours: expiryHours, SecureCookie: secureCookie}
}

// controllers/auth.go
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	result := ac.DB.WithContext(c.Request.Context()).
		Where("username = ?", strings.TrimSpace(input.Username)).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !user.IsActive || !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(ac.Secret, user.ID, ac.ExpiryHours)
	if err != nil {
		zap.L().Error("generate token", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Update last login
	now := time.Now()
	if err := ac.DB.Model(&user).Update("last_login", &now).Error; err != nil {
		zap.L().Warn("update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	c.SetCookie(
		utils.TokenCookie,
		token,
		ac.ExpiryHours*3600,
		"/",
		"",
		ac.SecureCookie,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.Name,
		},
	})
}

func (ac *AuthController) Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusInternalServerError, "User ID not found in context")
		return
	}

	var user models.User
	if err := ac.DB.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"name":      user.Name,
			"lastLogin": user.LastLogin,
		},
	})
}
