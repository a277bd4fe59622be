package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"inkwell/handlers"
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/routes"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	router   *gin.Engine
	users    *fakeUserStore
	posts    *fakePostStore
	comments *fakeCommentStore
	uploader *fakeUploader
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:    &fakeUserStore{},
		posts:    &fakePostStore{},
		comments: &fakeCommentStore{},
		uploader: &fakeUploader{url: "https://images.example.com/abc123.png"},
	}
	h := handlers.New(env.users, env.posts, env.comments, env.uploader, testSecret)
	env.router = routes.SetupRouter(h, []string{"http://localhost:3000"})
	return env
}

func (e *testEnv) seedUser(t *testing.T, name, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	e.users.users = append(e.users.users, user)
	return user
}

func (e *testEnv) seedPost(author primitive.ObjectID, title, status string, createdAt time.Time, tags ...string) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   "content of " + title,
		Excerpt:   "excerpt of " + title,
		AuthorID:  author,
		Tags:      tags,
		Status:    status,
		Likes:     []primitive.ObjectID{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	e.posts.posts = append(e.posts.posts, post)
	return post
}

func (e *testEnv) seedComment(author, post primitive.ObjectID, parent *primitive.ObjectID, content string, createdAt time.Time) *models.Comment {
	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   content,
		AuthorID:  author,
		PostID:    post,
		ParentID:  parent,
		Likes:     []primitive.ObjectID{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	e.comments.comments = append(e.comments.comments, comment)
	return comment
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(testSecret, user.ID.Hex(), user.Email, user.Name)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// do sends a JSON request through the full router (middleware included).
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

type paginationBody struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type errorBody struct {
	Error string `json:"error"`
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status: wanted %d, got %d (body %s)", want, w.Code, w.Body.String())
	}
}
