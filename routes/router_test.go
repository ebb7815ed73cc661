package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alphaingen/medboard/models"
)

const testModerator = "moderator@alphaingen.com"

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("MODERATOR_EMAIL", testModerator)
	os.Setenv("GIN_MODE", "test")
	os.Setenv("GIN_PATH", filepath.Join(os.TempDir(), "medboard_gin_test.log"))
	// Point the cache at a closed port so lookups miss fast instead of hitting
	// a developer's local redis.
	os.Setenv("REDIS_PORT", "1")
	os.Exit(m.Run())
}

type nopMailer struct{}

func (nopMailer) Send(to, subject, htmlBody string) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Reply{},
		&models.Guideline{},
		&models.GuidelineLike{},
	))
	return SetupRouter(db, nopMailer{})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func TestRootBanner(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alphaingen Server Running")
}

func TestSignupLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/signup", gin.H{
		"username": "jane", "email": "jane@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(200), body["statusCode"])
	assert.Contains(t, body["message"], "Registered successfully")

	// Same email again is rejected regardless of the other fields.
	w, body = doJSON(t, r, http.MethodPost, "/signup", gin.H{
		"username": "janet", "email": "jane@example.com", "password": "other",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This user already exists", body["message"])

	w, body = doJSON(t, r, http.MethodPost, "/login", gin.H{
		"email": "nobody@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid Email", body["message"])

	w, body = doJSON(t, r, http.MethodPost, "/login", gin.H{
		"email": "jane@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid Password", body["message"])

	w, body = doJSON(t, r, http.MethodPost, "/login", gin.H{
		"email": "jane@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully Logged In", body["message"])
	assert.Equal(t, "jane", body["username"])
	assert.NotEmpty(t, body["_id"])
	token, _ := body["alpha"].(string)
	require.NotEmpty(t, token)

	// Token verification capability.
	w, body = doJSON(t, r, http.MethodGet, "/me", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane", body["username"])

	w, _ = doJSON(t, r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuestionEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/questions", gin.H{"title": "no content"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title and content are required", body["message"])

	w, body = doJSON(t, r, http.MethodPost, "/questions", gin.H{
		"title": "What is ICD-10?", "content": "Explain briefly", "topic": "Coding",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	question, ok := body["question"].(map[string]any)
	require.True(t, ok)
	questionID, _ := question["_id"].(string)
	require.NotEmpty(t, questionID)
	assert.Equal(t, "Coding", question["topic"])
	assert.Equal(t, "Anonymous", question["author"])
	replies, ok := question["replies"].([]any)
	require.True(t, ok, "replies must marshal as an array")
	assert.Len(t, replies, 0)

	w, body = doJSON(t, r, http.MethodPost, "/questions/no-such-id/reply", gin.H{"text": "hi"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Question not found", body["message"])

	w, body = doJSON(t, r, http.MethodPost, "/questions/"+questionID+"/reply", gin.H{
		"text": "It's a classification system", "author": "Jane",
	})
	require.Equal(t, http.StatusOK, w.Code)
	reply, ok := body["reply"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane", reply["author"])

	// The PUT spelling reaches the same handler.
	w, _ = doJSON(t, r, http.MethodPut, "/questions/"+questionID+"/replies", gin.H{"text": "second"})
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	gotReplies, ok := listed[0]["replies"].([]any)
	require.True(t, ok)
	assert.Len(t, gotReplies, 2)
}

func TestGuidelineEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/guidelines", gin.H{
		"email": "someone@example.com", "title": "CPT basics", "content": "Read the code book",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Only the moderator can post guidelines", body["message"])

	w, body = doJSON(t, r, http.MethodPost, "/guidelines", gin.H{
		"email": testModerator, "title": "CPT basics", "content": "Read the code book",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	guideline, ok := body["guideline"].(map[string]any)
	require.True(t, ok)
	guidelineID, _ := guideline["_id"].(string)
	require.NotEmpty(t, guidelineID)
	assert.NotEmpty(t, guideline["image"])

	w, body = doJSON(t, r, http.MethodPut, "/guidelines/no-such-id/like", gin.H{"email": "jane@example.com"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Guideline not found", body["message"])

	w, body = doJSON(t, r, http.MethodPut, "/guidelines/"+guidelineID+"/like", gin.H{"email": "jane@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Guideline liked successfully", body["message"])

	w, body = doJSON(t, r, http.MethodPut, "/guidelines/"+guidelineID+"/like", gin.H{"email": "jane@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already liked this guideline", body["message"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guidelines", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, float64(1), listed[0]["likeCount"])
	likedBy, ok := listed[0]["likedBy"].([]any)
	require.True(t, ok)
	require.Len(t, likedBy, 1)
	assert.Equal(t, "jane@example.com", likedBy[0])
}
