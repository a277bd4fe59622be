package handlers_test

import (
	"context"
	"io"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/models"
	"inkwell/store"
)

// In-memory stand-ins for the Mongo stores. They reproduce the query
// semantics the handlers rely on: sort orders, filters, one-level
// cascade, like-set toggling.

type fakeUserStore struct {
	users []*models.User
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	s.users = append(s.users, &cp)
	return nil
}

func (s *fakeUserStore) ByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) EmailTaken(_ context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	for _, user := range s.users {
		if user.Email == email && user.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Update(ctx context.Context, id primitive.ObjectID, upd store.UserUpdate) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			user.Name = upd.Name
			user.Email = upd.Email
			user.Bio = upd.Bio
			user.Avatar = upd.Avatar
			if upd.PasswordHash != "" {
				user.PasswordHash = upd.PasswordHash
			}
			return s.ByID(ctx, id)
		}
	}
	return nil, store.ErrNotFound
}

type fakePostStore struct {
	posts []*models.Post
}

func populateAuthor(id primitive.ObjectID) *models.Author {
	return &models.Author{ID: id}
}

func (s *fakePostStore) Create(_ context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	cp := *post
	s.posts = append(s.posts, &cp)
	return nil
}

func (s *fakePostStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	for _, post := range s.posts {
		if post.ID == id {
			cp := *post
			cp.Author = populateAuthor(post.AuthorID)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func matchesFilter(post *models.Post, filter store.PostFilter) bool {
	if filter.Status != "" && post.Status != filter.Status {
		return false
	}
	if filter.Author != nil && post.AuthorID != *filter.Author {
		return false
	}
	if filter.Tag != "" {
		found := false
		for _, tag := range post.Tags {
			if tag == filter.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Content), needle) {
			return false
		}
	}
	return true
}

func (s *fakePostStore) List(_ context.Context, filter store.PostFilter, page store.Page) ([]models.Post, int64, error) {
	var matched []*models.Post
	for _, post := range s.posts {
		if matchesFilter(post, filter) {
			matched = append(matched, post)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := int(page.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]models.Post, 0, end-start)
	for _, post := range matched[start:end] {
		cp := *post
		cp.Author = populateAuthor(post.AuthorID)
		out = append(out, cp)
	}
	return out, total, nil
}

func (s *fakePostStore) Update(ctx context.Context, id primitive.ObjectID, upd store.PostUpdate) (*models.Post, error) {
	for _, post := range s.posts {
		if post.ID == id {
			if upd.Title != nil {
				post.Title = *upd.Title
			}
			if upd.Content != nil {
				post.Content = *upd.Content
			}
			if upd.Excerpt != nil {
				post.Excerpt = *upd.Excerpt
			}
			if upd.ImageURL != nil {
				post.ImageURL = *upd.ImageURL
			}
			if upd.Tags != nil {
				post.Tags = *upd.Tags
			}
			if upd.Status != nil {
				post.Status = *upd.Status
			}
			return s.ByID(ctx, id)
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakePostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, post := range s.posts {
		if post.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakePostStore) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	for _, post := range s.posts {
		if post.ID == id {
			post.ViewCount++
			return nil
		}
	}
	return nil
}

func (s *fakePostStore) ToggleLike(_ context.Context, id, userID primitive.ObjectID) (bool, int, error) {
	for _, post := range s.posts {
		if post.ID == id {
			liked, likes := toggleLikeSet(post.Likes, userID)
			post.Likes = likes
			return liked, len(likes), nil
		}
	}
	return false, 0, store.ErrNotFound
}

func toggleLikeSet(likes []primitive.ObjectID, userID primitive.ObjectID) (bool, []primitive.ObjectID) {
	for i, likerID := range likes {
		if likerID == userID {
			return false, append(likes[:i], likes[i+1:]...)
		}
	}
	return true, append(likes, userID)
}

type fakeCommentStore struct {
	comments []*models.Comment
}

func (s *fakeCommentStore) Create(_ context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	cp := *comment
	s.comments = append(s.comments, &cp)
	return nil
}

func (s *fakeCommentStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	for _, comment := range s.comments {
		if comment.ID == id {
			cp := *comment
			cp.Author = populateAuthor(comment.AuthorID)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeCommentStore) TopLevel(_ context.Context, postID primitive.ObjectID, page store.Page) ([]models.Comment, int64, error) {
	var matched []*models.Comment
	for _, comment := range s.comments {
		if comment.PostID == postID && comment.ParentID == nil {
			matched = append(matched, comment)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := int(page.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]models.Comment, 0, end-start)
	for _, comment := range matched[start:end] {
		cp := *comment
		cp.Author = populateAuthor(comment.AuthorID)
		out = append(out, cp)
	}
	return out, total, nil
}

func (s *fakeCommentStore) Replies(_ context.Context, parentID primitive.ObjectID) ([]models.Comment, error) {
	var matched []*models.Comment
	for _, comment := range s.comments {
		if comment.ParentID != nil && *comment.ParentID == parentID {
			matched = append(matched, comment)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	out := make([]models.Comment, 0, len(matched))
	for _, comment := range matched {
		cp := *comment
		cp.Author = populateAuthor(comment.AuthorID)
		out = append(out, cp)
	}
	return out, nil
}

func (s *fakeCommentStore) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	for _, comment := range s.comments {
		if comment.ID == id {
			comment.Content = content
			comment.IsEdited = true
			return s.ByID(ctx, id)
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeCommentStore) DeleteWithReplies(_ context.Context, id primitive.ObjectID) error {
	var kept []*models.Comment
	deleted := 0
	for _, comment := range s.comments {
		if comment.ID == id || (comment.ParentID != nil && *comment.ParentID == id) {
			deleted++
			continue
		}
		kept = append(kept, comment)
	}
	if deleted == 0 {
		return store.ErrNotFound
	}
	s.comments = kept
	return nil
}

func (s *fakeCommentStore) ToggleLike(_ context.Context, id, userID primitive.ObjectID) (bool, int, error) {
	for _, comment := range s.comments {
		if comment.ID == id {
			liked, likes := toggleLikeSet(comment.Likes, userID)
			comment.Likes = likes
			return liked, len(likes), nil
		}
	}
	return false, 0, store.ErrNotFound
}

type fakeUploader struct {
	url string
	err error
}

func (u *fakeUploader) Upload(_ context.Context, _ io.Reader) (string, error) {
	return u.url, u.err
}
