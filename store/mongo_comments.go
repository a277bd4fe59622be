package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inkwell/models"
)

type MongoCommentStore struct {
	coll *mongo.Collection
}

func NewMongoCommentStore(coll *mongo.Collection) *MongoCommentStore {
	return &MongoCommentStore{coll: coll}
}

func (s *MongoCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, comment)
	return err
}

type populatedComment struct {
	models.Comment `bson:",inline"`
	AuthorDoc      *models.Author `bson:"authorDoc"`
}

func (s *MongoCommentStore) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.Comment, error) {
	cursor, err := s.coll.Aggregate(ctx, append(pipeline, authorLookup()...))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []populatedComment
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	comments := make([]models.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.Comment
		comments[i].Author = row.AuthorDoc
	}
	return comments, nil
}

func (s *MongoCommentStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	comments, err := s.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
	})
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, ErrNotFound
	}
	return &comments[0], nil
}

func (s *MongoCommentStore) TopLevel(ctx context.Context, postID primitive.ObjectID, page Page) ([]models.Comment, int64, error) {
	query := bson.M{"post": postID, "parentComment": nil}

	comments, err := s.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: query}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: int64(page.Size)}},
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *MongoCommentStore) Replies(ctx context.Context, parentID primitive.ObjectID) ([]models.Comment, error) {
	return s.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "parentComment", Value: parentID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
	})
}

func (s *MongoCommentStore) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"content":   content,
		"isEdited":  true,
		"updatedAt": now(),
	}})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.ByID(ctx, id)
}

// DeleteWithReplies removes the comment and comments one level below it in
// a single DeleteMany. Grandchildren keep their (now dangling) parent
// pointer; the two-tier read path never reaches them.
func (s *MongoCommentStore) DeleteWithReplies(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteMany(ctx, bson.M{"$or": []bson.M{
		{"_id": id},
		{"parentComment": id},
	}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCommentStore) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (bool, int, error) {
	return toggleLike(ctx, s.coll, id, userID)
}
