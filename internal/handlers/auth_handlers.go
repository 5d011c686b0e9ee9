package handlers

import (
	"errors"
	"net/http"

	"resto_backend/internal/models"
	"resto_backend/internal/services"
	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var payload models.RegistrationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	user, err := h.authService.RegisterUser(payload)
	if err != nil {
		utils.LogError(err, "Register: Error from authService.RegisterUser")
		if errors.Is(err, services.ErrUsernameExists) {
			respondConflict(c, "Username or email already exists.", err)
		} else if errors.Is(err, services.ErrInvalidRole) {
			respondBadRequest(c, "Invalid role.", err)
		} else {
			respondInternal(c, "Failed to register user.")
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login handles authentication and returns an access/refresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	resp, err := h.authService.LoginUser(creds)
	if err != nil {
		utils.LogError(err, "Login: Error from authService.LoginUser")
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", "unauthorized"))
		} else if errors.Is(err, services.ErrAccountDisabled) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Account is disabled.", err.Error()))
		} else {
			respondInternal(c, "Failed to login.")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	resp, err := h.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		utils.LogError(err, "RefreshToken: Error from authService.RefreshTokens")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired refresh token.", "unauthorized"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", "no user in context"))
		return
	}

	user, err := h.authService.GetUserProfile(*userID)
	if err != nil {
		utils.LogError(err, "GetProfile: Error from authService.GetUserProfile")
		if errors.Is(err, services.ErrUserNotFound) {
			respondNotFound(c, "User not found.", err)
		} else {
			respondInternal(c, "Failed to fetch profile.")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout acknowledges the logout. Tokens are stateless; the client drops
// them.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetUsers lists all user accounts (admin only).
func (h *AuthHandler) GetUsers(c *gin.Context) {
	users, err := h.authService.GetUsers()
	if err != nil {
		utils.LogError(err, "GetUsers: Error from authService.GetUsers")
		respondInternal(c, "Failed to fetch users.")
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser updates a user account (admin only).
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	user, err := h.authService.UpdateUser(id, req)
	if err != nil {
		utils.LogError(err, "UpdateUser: Error from authService.UpdateUser")
		if errors.Is(err, services.ErrUserNotFound) {
			respondNotFound(c, "User not found.", err)
		} else if errors.Is(err, services.ErrInvalidRole) {
			respondBadRequest(c, "Invalid role.", err)
		} else if errors.Is(err, services.ErrUsernameExists) {
			respondConflict(c, "Email already in use.", err)
		} else {
			respondInternal(c, "Failed to update user.")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}
