package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alphaingen/medboard/services"
	"github.com/alphaingen/medboard/utils"
)

const questionsCacheKey = "cache:questions:list"

// QuestionController handles posting, listing, and replying to questions.
type QuestionController struct {
	questions *services.QuestionService
}

// NewQuestionController creates a QuestionController.
func NewQuestionController(questions *services.QuestionService) *QuestionController {
	return &QuestionController{questions: questions}
}

// Create posts a new question.
func (q *QuestionController) Create(ctx *gin.Context) {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
		Author  string   `json:"author"`
		Topic   string   `json:"topic"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "Title and content are required")
		return
	}

	question, err := q.questions.Post(services.PostQuestionInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Author:  req.Author,
		Topic:   req.Topic,
	})
	if err != nil {
		if errors.Is(err, services.ErrMissingField) {
			utils.Fail(ctx, http.StatusBadRequest, "Title and content are required")
			return
		}
		utils.Internal(ctx)
		return
	}

	utils.InvalidateByPrefix(questionsCacheKey)
	ctx.JSON(http.StatusCreated, gin.H{
		"message":  "Question posted successfully",
		"question": question,
	})
}

// List returns every question, newest first.
func (q *QuestionController) List(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(questionsCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	questions, err := q.questions.List()
	if err != nil {
		utils.Internal(ctx)
		return
	}

	utils.CacheSetJSON(questionsCacheKey, questions, 10*time.Minute)
	ctx.JSON(http.StatusOK, questions)
}

// AddReply appends a reply to the question in the path.
func (q *QuestionController) AddReply(ctx *gin.Context) {
	var req struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	reply, err := q.questions.AddReply(ctx.Param("id"), req.Text, req.Author)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "Question not found")
			return
		}
		utils.Internal(ctx)
		return
	}

	utils.InvalidateByPrefix(questionsCacheKey)
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Reply added successfully",
		"reply":   reply,
	})
}
