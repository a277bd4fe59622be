package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/models"
	"inkwell/store"
)

type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Excerpt  string   `json:"excerpt"`
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status"`
}

type UpdatePostRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Excerpt  *string   `json:"excerpt"`
	ImageURL *string   `json:"imageUrl"`
	Tags     *[]string `json:"tags"`
	Status   *string   `json:"status"`
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func validStatus(status string) bool {
	return status == models.StatusDraft || status == models.StatusPublished
}

// ListPosts is the public listing: published posts only, newest first,
// with optional free-text search, tag and author filters.
func (h *Handler) ListPosts(c *gin.Context) {
	page := store.NewPage(c.Query("page"), c.Query("limit"), defaultPostPageSize)

	filter := store.PostFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Tag:    strings.TrimSpace(c.Query("tag")),
		Status: models.StatusPublished,
	}
	if author := c.Query("author"); author != "" {
		if authorID, err := primitive.ObjectIDFromHex(author); err == nil {
			filter.Author = &authorID
		}
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	posts, total, err := h.Posts.List(ctx, filter, page)
	if err != nil {
		log.Printf("ListPosts error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"pagination": paginationFor(page, total),
	})
}

// GetPost returns one post with its author populated and bumps the view
// counter on every successful fetch. Repeat views by the same client
// count again; there is no dedup.
func (h *Handler) GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	post, err := h.Posts.ByID(ctx, postID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("GetPost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	// A concurrent delete makes this a no-op; the fetched copy is still
	// served.
	if err := h.Posts.IncrementViews(ctx, postID); err != nil {
		log.Printf("GetPost view count error: %v", err)
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Excerpt = strings.TrimSpace(req.Excerpt)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" || req.Excerpt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, content, and excerpt are required"})
		return
	}
	if len(req.Title) > models.MaxTitleLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is too long"})
		return
	}
	if len(req.Excerpt) > models.MaxExcerptLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Excerpt is too long"})
		return
	}
	if req.Status == "" {
		req.Status = models.StatusPublished
	}
	if !validStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be draft or published"})
		return
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	nowTime := timeNow()
	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		AuthorID:  userID,
		ImageURL:  req.ImageURL,
		Tags:      cleanTags(req.Tags),
		Status:    req.Status,
		Likes:     []primitive.ObjectID{},
		CreatedAt: nowTime,
		UpdatedAt: nowTime,
	}

	if err := h.Posts.Create(ctx, post); err != nil {
		log.Printf("CreatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	created, err := h.Posts.ByID(ctx, post.ID)
	if err != nil {
		log.Printf("CreatePost populate error: %v", err)
		c.JSON(http.StatusCreated, post)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" || len(trimmed) > models.MaxTitleLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid title"})
			return
		}
		req.Title = &trimmed
	}
	if req.Excerpt != nil {
		trimmed := strings.TrimSpace(*req.Excerpt)
		if trimmed == "" || len(trimmed) > models.MaxExcerptLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid excerpt"})
			return
		}
		req.Excerpt = &trimmed
	}
	if req.Status != nil && !validStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be draft or published"})
		return
	}
	if req.Tags != nil {
		cleaned := cleanTags(*req.Tags)
		req.Tags = &cleaned
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	// Existence and ownership are checked before mutating; the two steps
	// are not transactional (last write wins).
	post, err := h.Posts.ByID(ctx, postID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to edit this post"})
		return
	}

	updated, err := h.Posts.Update(ctx, postID, store.PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
		Status:   req.Status,
	})
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("UpdatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	post, err := h.Posts.ByID(ctx, postID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this post"})
		return
	}

	// Comments are intentionally not cascaded.
	if err := h.Posts.Delete(ctx, postID); err != nil && err != store.ErrNotFound {
		log.Printf("DeletePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *Handler) LikePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	liked, count, err := h.Posts.ToggleLike(ctx, postID, userID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("LikePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update likes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": count})
}
