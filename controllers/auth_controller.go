package controllers

import (
	"errors"
	"net/http"

	"blogapi/models"
	"blogapi/services"
	"blogapi/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct {
	db           *gorm.DB
	userService  *services.UserService
	emailService *services.EmailService
	jwt          *utils.JWTManager
}

func NewAuthController(db *gorm.DB, jwt *utils.JWTManager, emailService *services.EmailService) *AuthController {
	return &AuthController{
		db:           db,
		userService:  services.NewUserService(db),
		emailService: emailService,
		jwt:          jwt,
	}
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  models.RegisterRequest  true  "Account details"
// @Success      201   {object}  models.UserProfileResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ac.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := ac.jwt.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// A failed welcome mail is logged by the email service and does not
	// undo the registration.
	ac.emailService.SendWelcomeEmail(c.Request.Context(), user.Email, user.FirstName)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"data":    models.NewUserProfileResponse(user),
		"token":   token,
	})
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  models.LoginRequest  true  "Credentials"
// @Success      200   {object}  models.UserProfileResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ac.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := ac.jwt.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    models.NewUserProfileResponse(user),
		"token":   token,
	})
}

// Me godoc
// @Summary      Current user's profile
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.UserProfileResponse
// @Router       /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := ac.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models.NewUserProfileResponse(user)})
}

// RequestPasswordReset godoc
// @Summary      Email a password reset link
// @Description  Always answers 200 so callers cannot probe which emails are registered.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  models.PasswordResetRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Router       /auth/password-reset [post]
func (ac *AuthController) RequestPasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	const message = "If an account exists for this email, a reset link has been sent"

	user, err := ac.userService.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"message": message})
			return
		}
		respondError(c, err)
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusOK, gin.H{"message": message})
		return
	}

	token, err := ac.jwt.GeneratePasswordResetToken(user.ID, user.PasswordFingerprint())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	ac.emailService.SendPasswordResetEmail(c.Request.Context(), user.Email, token)

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// ConfirmPasswordReset godoc
// @Summary      Set a new password using a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  models.PasswordResetConfirmRequest  true  "Token and new password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /auth/password-reset/confirm [post]
func (ac *AuthController) ConfirmPasswordReset(c *gin.Context) {
	var req models.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, fingerprint, err := ac.jwt.ValidatePasswordResetToken(req.Token)
	if err != nil {
		respondError(c, services.ErrInvalidResetToken)
		return
	}

	_, err = ac.userService.ResetPassword(c.Request.Context(), userID, fingerprint, req.Password, req.PasswordConfirm)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
