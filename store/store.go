// Package store holds the persistence layer: interfaces consumed by the
// HTTP handlers plus their MongoDB implementations. Handlers never touch
// collections directly, which keeps ownership/threading semantics testable
// against in-memory fakes.
package store

import (
	"context"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/models"
)

var (
	ErrNotFound       = errors.New("store: not found")
	ErrDuplicateEmail = errors.New("store: email already registered")
)

// Page is a normalized pagination request. Use NewPage to build one from
// raw query parameters; malformed input falls back to defaults instead of
// erroring.
type Page struct {
	Number int
	Size   int
}

func NewPage(pageParam, limitParam string, defaultSize int) Page {
	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(limitParam)
	if err != nil || size < 1 {
		size = defaultSize
	}
	return Page{Number: page, Size: size}
}

func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Size)
}

// PageCount returns ceil(total/size).
func PageCount(total int64, size int) int {
	if size < 1 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// PostFilter carries the independently optional listing criteria, each
// mapped to exactly one storage predicate.
type PostFilter struct {
	Search string
	Tag    string
	Author *primitive.ObjectID
	Status string
}

func (f PostFilter) Query() bson.M {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.Search != "" {
		query["$text"] = bson.M{"$search": f.Search}
	}
	if f.Tag != "" {
		query["tags"] = f.Tag
	}
	if f.Author != nil {
		query["author"] = *f.Author
	}
	return query
}

// PostUpdate is a partial update: nil fields are left untouched.
type PostUpdate struct {
	Title    *string
	Content  *string
	Excerpt  *string
	ImageURL *string
	Tags     *[]string
	Status   *string
}

type UserUpdate struct {
	Name   string
	Email  string
	Bio    string
	Avatar string

	// Empty means the password stays as is.
	PasswordHash string
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	// ByID returns the post with its author populated.
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// List returns a page of posts matching the filter, newest first,
	// authors populated, along with the total match count.
	List(ctx context.Context, filter PostFilter, page Page) ([]models.Post, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, upd PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// IncrementViews bumps the view counter by one. Incrementing a deleted
	// post is a no-op, not an error.
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	// ToggleLike adds the user to the like set if absent, removes them if
	// present. Returns the resulting liked state and like count.
	ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (bool, int, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	// TopLevel returns a page of parentless comments for the post, newest
	// first, authors populated, plus the total top-level count.
	TopLevel(ctx context.Context, postID primitive.ObjectID, page Page) ([]models.Comment, int64, error)
	// Replies returns every direct reply to the comment, oldest first,
	// authors populated. Deeper descendants are not traversed.
	Replies(ctx context.Context, parentID primitive.ObjectID) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error)
	// DeleteWithReplies removes the comment and its direct replies only.
	// Replies-to-replies are left in place; the threaded read never
	// surfaces them once their parent is gone.
	DeleteWithReplies(ctx context.Context, id primitive.ObjectID) error
	ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (bool, int, error)
}
