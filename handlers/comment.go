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

type CreateCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID string `json:"parentCommentId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// ListComments returns the thread for a post: a page of top-level
// comments newest-first, each carrying its direct replies oldest-first.
// Storage supports arbitrary nesting, but this read surfaces exactly two
// tiers; replies-to-replies never appear here.
func (h *Handler) ListComments(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	page := store.NewPage(c.Query("page"), c.Query("limit"), defaultCommentPageSize)

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	comments, total, err := h.Comments.TopLevel(ctx, postID, page)
	if err != nil {
		log.Printf("ListComments error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	for i := range comments {
		replies, err := h.Comments.Replies(ctx, comments[i].ID)
		if err != nil {
			log.Printf("ListComments replies error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
			return
		}
		if replies == nil {
			replies = []models.Comment{}
		}
		comments[i].Replies = replies
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   comments,
		"pagination": paginationFor(page, total),
	})
}

func (h *Handler) CreateComment(c *gin.Context) {
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

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}
	if len(content) > models.MaxCommentLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment is too long"})
		return
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	var parentID *primitive.ObjectID
	if req.ParentCommentID != "" {
		id, err := primitive.ObjectIDFromHex(req.ParentCommentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent comment"})
			return
		}

		// A reply must attach to a comment on the same post.
		parent, err := h.Comments.ByID(ctx, id)
		if err == store.ErrNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if parent.PostID != postID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment belongs to a different post"})
			return
		}
		parentID = &id
	}

	nowTime := timeNow()
	comment := &models.Comment{
		Content:   content,
		AuthorID:  userID,
		PostID:    postID,
		ParentID:  parentID,
		Likes:     []primitive.ObjectID{},
		CreatedAt: nowTime,
		UpdatedAt: nowTime,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		log.Printf("CreateComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	created, err := h.Comments.ByID(ctx, comment.ID)
	if err != nil {
		log.Printf("CreateComment populate error: %v", err)
		c.JSON(http.StatusCreated, comment)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}
	if len(content) > models.MaxCommentLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment is too long"})
		return
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	comment, err := h.Comments.ByID(ctx, commentID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}
	if comment.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to edit this comment"})
		return
	}

	updated, err := h.Comments.UpdateContent(ctx, commentID, content)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		log.Printf("UpdateComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteComment removes the comment and its direct replies. Deeper
// descendants stay in storage with a dangling parent pointer; the
// threaded read never reaches them.
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	comment, err := h.Comments.ByID(ctx, commentID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}
	if comment.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this comment"})
		return
	}

	if err := h.Comments.DeleteWithReplies(ctx, commentID); err != nil && err != store.ErrNotFound {
		log.Printf("DeleteComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func (h *Handler) LikeComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	ctx, cancel := requestContext(dbTimeout)
	defer cancel()

	liked, count, err := h.Comments.ToggleLike(ctx, commentID, userID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		log.Printf("LikeComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update likes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": count})
}
