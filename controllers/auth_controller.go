package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alphaingen/medboard/middleware"
	"github.com/alphaingen/medboard/services"
	"github.com/alphaingen/medboard/utils"
)

// AuthController handles signup, login, and the current-user lookup.
type AuthController struct {
	accounts *services.AccountService
}

// NewAuthController creates an AuthController.
func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{accounts: accounts}
}

// Signup registers a new account and triggers the welcome mail.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	if _, err := a.accounts.Register(req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateEmail):
			utils.Fail(ctx, http.StatusBadRequest, "This user already exists")
		case errors.Is(err, services.ErrMissingField):
			utils.Fail(ctx, http.StatusBadRequest, "Username, email and password are required")
		default:
			utils.Internal(ctx)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"statusCode": http.StatusOK,
		"message":    "Registered successfully. Check your email for login link.",
	})
}

// Login authenticates a user and issues a bearer token under the "alpha" key,
// the name clients already depend on.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := a.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownEmail):
			utils.Fail(ctx, http.StatusBadRequest, "Invalid Email")
		case errors.Is(err, services.ErrWrongPassword):
			utils.Fail(ctx, http.StatusBadRequest, "Invalid Password")
		default:
			utils.Internal(ctx)
		}
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username)
	if err != nil {
		utils.Internal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"alpha":    token,
		"message":  "Successfully Logged In",
		"_id":      user.ID,
		"username": user.Username,
	})
}

// Me returns the user behind the presented bearer token.
func (a *AuthController) Me(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserIDKey)
	user, err := a.accounts.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "User not found")
			return
		}
		utils.Internal(ctx)
		return
	}
	ctx.JSON(http.StatusOK, user)
}
