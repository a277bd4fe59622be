package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxCommentLength = 1000

// Comment is stored flat: a nullable parent pointer, no embedded tree.
// Thread shape is reconstructed at read time, two tiers deep.
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Content   string               `bson:"content" json:"content"`
	AuthorID  primitive.ObjectID   `bson:"author" json:"authorId"`
	PostID    primitive.ObjectID   `bson:"post" json:"postId"`
	ParentID  *primitive.ObjectID  `bson:"parentComment" json:"parentCommentId,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	IsEdited  bool                 `bson:"isEdited" json:"isEdited"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
	Author    *Author              `bson:"-" json:"author,omitempty"`  // Populated in response only
	Replies   []Comment            `bson:"-" json:"replies,omitempty"` // Direct replies, oldest first
}
