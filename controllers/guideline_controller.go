package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alphaingen/medboard/services"
	"github.com/alphaingen/medboard/utils"
)

const guidelinesCacheKey = "cache:guidelines:list"

// GuidelineController handles publishing, listing, and liking guidelines.
type GuidelineController struct {
	guidelines *services.GuidelineService
}

// NewGuidelineController creates a GuidelineController.
func NewGuidelineController(guidelines *services.GuidelineService) *GuidelineController {
	return &GuidelineController{guidelines: guidelines}
}

// Create publishes a guideline; only the designated publisher may do so.
func (g *GuidelineController) Create(ctx *gin.Context) {
	var req struct {
		Email   string `json:"email"`
		Title   string `json:"title"`
		Content string `json:"content"`
		Image   string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	guideline, err := g.guidelines.Post(req.Email, req.Title, req.Content, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAuthorized):
			utils.Fail(ctx, http.StatusForbidden, "Only the moderator can post guidelines")
		case errors.Is(err, services.ErrMissingField):
			utils.Fail(ctx, http.StatusBadRequest, "Title and content are required")
		default:
			utils.Internal(ctx)
		}
		return
	}

	utils.InvalidateByPrefix(guidelinesCacheKey)
	ctx.JSON(http.StatusCreated, gin.H{
		"message":   "Guideline posted successfully",
		"guideline": guideline,
	})
}

// List returns every guideline, newest first.
func (g *GuidelineController) List(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(guidelinesCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	guidelines, err := g.guidelines.List()
	if err != nil {
		utils.Internal(ctx)
		return
	}

	utils.CacheSetJSON(guidelinesCacheKey, guidelines, 10*time.Minute)
	ctx.JSON(http.StatusOK, guidelines)
}

// Like records a like for the guideline in the path, once per email.
func (g *GuidelineController) Like(ctx *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := g.guidelines.Like(ctx.Param("id"), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Fail(ctx, http.StatusNotFound, "Guideline not found")
		case errors.Is(err, services.ErrAlreadyLiked):
			utils.Fail(ctx, http.StatusBadRequest, "You have already liked this guideline")
		case errors.Is(err, services.ErrMissingField):
			utils.Fail(ctx, http.StatusBadRequest, "Email is required")
		default:
			utils.Internal(ctx)
		}
		return
	}

	utils.InvalidateByPrefix(guidelinesCacheKey)
	ctx.JSON(http.StatusOK, gin.H{"message": "Guideline liked successfully"})
}
