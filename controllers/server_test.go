package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogapi/controllers"
	"blogapi/database"
	"blogapi/handlers"
	"blogapi/models"
	"blogapi/routes"
	"blogapi/services"
	"blogapi/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	jwt    *utils.JWTManager
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := database.NewTestDB(t)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	hub := services.NewHubService()
	t.Cleanup(hub.Close)

	r := gin.New()
	routes.SetupRoutes(r, jwtManager, services.NewUserService(db), routes.Handlers{
		Auth:      controllers.NewAuthController(db, jwtManager, services.NewEmailService(services.LogMailer{}, "http://localhost:3000")),
		Users:     controllers.NewUserController(db),
		Posts:     controllers.NewPostController(db, 2, hub),
		Comments:  controllers.NewCommentController(db, hub),
		Taxonomy:  controllers.NewTaxonomyController(db),
		Stats:     controllers.NewStatsController(db),
		WebSocket: handlers.NewWebSocketHandler(hub, nil),
	})

	return &testServer{t: t, db: db, jwt: jwtManager, router: r}
}

// do sends a JSON request and decodes the JSON response into a generic map.
func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// user stores an active account directly and returns it with an access token.
func (s *testServer) user(username string, staff bool) (*models.User, string) {
	s.t.Helper()

	user := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		Password:  "testpass123",
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
		IsStaff:   staff,
	}
	require.NoError(s.t, user.HashPassword())
	require.NoError(s.t, s.db.Create(user).Error)

	token, err := s.jwt.GenerateJWT(user.ID)
	require.NoError(s.t, err)
	return user, token
}

// publish creates a published post through the API and returns its slug.
func (s *testServer) publish(token, title string, extra map[string]interface{}) string {
	s.t.Helper()

	body := map[string]interface{}{
		"title":   title,
		"content": "Some content for " + title,
		"status":  "published",
	}
	for k, v := range extra {
		body[k] = v
	}

	code, resp := s.do(http.MethodPost, "/api/v1/posts", token, body)
	require.Equal(s.t, http.StatusCreated, code, fmt.Sprint(resp))
	return data(s.t, resp)["slug"].(string)
}

func data(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

func dataList(t *testing.T, resp map[string]interface{}) []interface{} {
	t.Helper()
	d, ok := resp["data"].([]interface{})
	require.True(t, ok, "response has no data list: %v", resp)
	return d
}
