package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/domain"
	"taskmanager/internal/middleware"
	"taskmanager/internal/modules/activity"
	"taskmanager/internal/pkg/response"
)

type Handler struct {
	service  *Service
	activity activity.Recorder
}

func NewHandler(service *Service, recorder activity.Recorder) *Handler {
	return &Handler{service: service, activity: recorder}
}

// RegisterPublicRoutes mounts the endpoints that need no token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.POST("/verify-reset-token", h.VerifyResetToken)
	}
}

// RegisterRefreshRoutes mounts /auth/refresh; the caller gates the group
// with the refresh-token authenticator.
func (h *Handler) RegisterRefreshRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/refresh", h.Refresh)
}

// RegisterProtectedRoutes mounts the endpoints behind the access-token
// authenticator. The optional middleware is applied only to logout/all,
// which gets the tight rate budget of the other sensitive endpoints.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup, sensitive ...gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/logout", h.Logout)
		auth.POST("/logout/all", append(sensitive, h.LogoutAll)...)
		auth.GET("/me", h.Me)
		auth.PUT("/me", h.UpdateMe)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !response.Bind(c, &req) {
		return
	}

	user, tokens, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			response.Error(c, http.StatusConflict, response.KindConflict, "Email already registered")
		case errors.Is(err, ErrUsernameExists):
			response.Error(c, http.StatusConflict, response.KindConflict, "Username already taken")
		default:
			response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to register user")
		}
		return
	}

	h.record(c, user.ID, domain.ActivityUserRegister, "New user registered")

	c.JSON(http.StatusCreated, gin.H{
		"message":       "User registered successfully",
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !response.Bind(c, &req) {
		return
	}

	user, tokens, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.KindCredentials, "Invalid email or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to log in")
		return
	}

	h.record(c, user.ID, domain.ActivityUserLogin, "User logged in")

	c.JSON(http.StatusOK, gin.H{
		"message":       "Login successful",
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, http.StatusUnauthorized, response.KindUnauthorized, "Authorization required")
		return
	}

	access, err := h.service.Refresh(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *Handler) Logout(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, http.StatusUnauthorized, response.KindUnauthorized, "Authorization required")
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to log out")
		return
	}

	h.record(c, middleware.CurrentUserID(c), domain.ActivityUserLogout, "User logged out")

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (h *Handler) LogoutAll(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, http.StatusUnauthorized, response.KindUnauthorized, "Authorization required")
		return
	}

	if err := h.service.LogoutAll(c.Request.Context(), claims); err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to log out")
		return
	}

	h.record(c, middleware.CurrentUserID(c), domain.ActivityUserLogout, "User logged out from all devices")

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out from all devices"})
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.GetCurrentUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.KindNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if !response.Bind(c, &req) {
		return
	}

	userID := middleware.CurrentUserID(c)
	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.KindNotFound, "User not found")
		case errors.Is(err, ErrEmailExists):
			response.Error(c, http.StatusConflict, response.KindConflict, "Email already registered")
		case errors.Is(err, ErrUsernameExists):
			response.Error(c, http.StatusConflict, response.KindConflict, "Username already taken")
		default:
			response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to update user")
		}
		return
	}

	h.record(c, userID, domain.ActivityUserUpdate, "Profile updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !response.Bind(c, &req) {
		return
	}

	user, err := h.service.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to process request")
		return
	}

	if user != nil {
		h.record(c, user.ID, domain.ActivityPasswordResetRequest, "Password reset requested")
	}

	// Same answer whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{
		"message": "If an account exists with this email, you will receive password reset instructions.",
	})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !response.Bind(c, &req) {
		return
	}

	user, err := h.service.ResetPassword(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidResetToken) || errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusBadRequest, response.KindValidation, "Invalid or expired token")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.KindServer, "Failed to reset password")
		return
	}

	h.record(c, user.ID, domain.ActivityPasswordResetComplete, "Password reset completed")

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *Handler) VerifyResetToken(c *gin.Context) {
	var req VerifyResetTokenRequest
	if !response.Bind(c, &req) {
		return
	}

	if h.service.VerifyResetToken(c.Request.Context(), req.Token) {
		c.JSON(http.StatusOK, gin.H{"valid": true, "message": "Token is valid"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": false, "message": "Invalid or expired token"})
}

func (h *Handler) record(c *gin.Context, userID int64, activityType domain.ActivityType, description string) {
	h.activity.Log(c.Request.Context(), activity.Record{
		UserID:      userID,
		Type:        activityType,
		EntityType:  "user",
		EntityID:    userID,
		Description: description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
}
