package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/models"
)

// BSON datetimes carry millisecond precision; truncating keeps values
// stable across a write/read round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// authorLookup joins the users collection into an "authorDoc" field with
// only the projection the responses expose.
func authorLookup() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "authorDoc"},
			{Key: "pipeline", Value: []bson.D{
				{{Key: "$project", Value: bson.D{
					{Key: "name", Value: 1},
					{Key: "avatar", Value: 1},
					{Key: "bio", Value: 1},
				}}},
			}},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$authorDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

type MongoPostStore struct {
	coll *mongo.Collection
}

func NewMongoPostStore(coll *mongo.Collection) *MongoPostStore {
	return &MongoPostStore{coll: coll}
}

func (s *MongoPostStore) Create(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, post)
	return err
}

type populatedPost struct {
	models.Post `bson:",inline"`
	AuthorDoc   *models.Author `bson:"authorDoc"`
}

func (s *MongoPostStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
	}, authorLookup()...)

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []populatedPost
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	post := rows[0].Post
	post.Author = rows[0].AuthorDoc
	return &post, nil
}

func (s *MongoPostStore) List(ctx context.Context, filter PostFilter, page Page) ([]models.Post, int64, error) {
	query := filter.Query()

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: query}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: int64(page.Size)}},
	}, authorLookup()...)

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var rows []populatedPost
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, 0, err
	}

	posts := make([]models.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.Post
		posts[i].Author = row.AuthorDoc
	}

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *MongoPostStore) Update(ctx context.Context, id primitive.ObjectID, upd PostUpdate) (*models.Post, error) {
	set := bson.M{"updatedAt": now()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Excerpt != nil {
		set["excerpt"] = *upd.Excerpt
	}
	if upd.ImageURL != nil {
		set["imageUrl"] = *upd.ImageURL
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.ByID(ctx, id)
}

func (s *MongoPostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPostStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"viewCount": 1}})
	return err
}

func (s *MongoPostStore) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (bool, int, error) {
	return toggleLike(ctx, s.coll, id, userID)
}

// toggleLike flips membership of userID in a document's like set. The read
// and the update are separate document operations; a concurrent toggle is
// a benign lost update, matching the rest of the mutation paths.
func toggleLike(ctx context.Context, coll *mongo.Collection, id, userID primitive.ObjectID) (bool, int, error) {
	var doc struct {
		Likes []primitive.ObjectID `bson:"likes"`
	}
	err := coll.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"likes": 1})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return false, 0, ErrNotFound
	}
	if err != nil {
		return false, 0, err
	}

	liked := false
	for _, likerID := range doc.Likes {
		if likerID == userID {
			liked = true
			break
		}
	}

	var update bson.M
	if liked {
		update = bson.M{"$pull": bson.M{"likes": userID}}
	} else {
		update = bson.M{"$addToSet": bson.M{"likes": userID}}
	}
	if _, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return false, 0, err
	}

	count := len(doc.Likes)
	if liked {
		count--
	} else {
		count++
	}
	return !liked, count, nil
}
