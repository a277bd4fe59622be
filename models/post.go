package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

const (
	MaxTitleLength   = 200
	MaxExcerptLength = 300
)

type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Excerpt   string               `bson:"excerpt" json:"excerpt"`
	AuthorID  primitive.ObjectID   `bson:"author" json:"authorId"`
	ImageURL  string               `bson:"imageUrl" json:"imageUrl"`
	Tags      []string             `bson:"tags" json:"tags"`
	Status    string               `bson:"status" json:"status"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	ViewCount int64                `bson:"viewCount" json:"viewCount"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
	Author    *Author              `bson:"-" json:"author,omitempty"` // Populated in response only
}
