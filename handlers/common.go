package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/middleware"
	"inkwell/services"
	"inkwell/store"
)

const (
	dbTimeout     = 10 * time.Second
	uploadTimeout = 30 * time.Second

	defaultPostPageSize    = 10
	defaultCommentPageSize = 20
)

// Handler carries the stores and collaborators every endpoint needs.
// Handlers stay thin: validate input, call the store, shape the JSON.
type Handler struct {
	Users     store.UserStore
	Posts     store.PostStore
	Comments  store.CommentStore
	Uploader  services.Uploader
	JWTSecret []byte
}

func New(users store.UserStore, posts store.PostStore, comments store.CommentStore, up services.Uploader, jwtSecret []byte) *Handler {
	return &Handler{
		Users:     users,
		Posts:     posts,
		Comments:  comments,
		Uploader:  up,
		JWTSecret: jwtSecret,
	}
}

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// timeNow truncates to milliseconds so stored timestamps survive a BSON
// round trip unchanged.
func timeNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// currentUserID reads the authenticated caller's id set by RequireAuth.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func paginationFor(page store.Page, total int64) pagination {
	return pagination{
		Page:  page.Number,
		Limit: page.Size,
		Total: total,
		Pages: store.PageCount(total, page.Size),
	}
}
