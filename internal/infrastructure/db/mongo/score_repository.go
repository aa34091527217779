package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

const collectionScores = "scores"

type ScoreRepository struct {
	col *mongo.Collection
}

func NewScoreRepository(db *mongo.Database) *ScoreRepository {
	return &ScoreRepository{col: db.Collection(collectionScores)}
}

var _ ports.ScoreRepository = (*ScoreRepository)(nil)

type scoreDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Username  string             `bson:"username"`
	Score     int                `bson:"score"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d scoreDocument) toDomain() *domain.Score {
	return &domain.Score{
		ID:        d.ID.Hex(),
		UserID:    d.User.Hex(),
		Username:  d.Username,
		Value:     d.Score,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (r *ScoreRepository) Insert(ctx context.Context, s *domain.Score) (*domain.Score, error) {
	userID, err := primitive.ObjectIDFromHex(s.UserID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := scoreDocument{
		User:      userID,
		Username:  s.Username,
		Score:     s.Value,
		CreatedAt: s.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert score: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *ScoreRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Score, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"user": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer cur.Close(ctx)

	var docs []scoreDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list scores: decode: %w", err)
	}

	scores := make([]*domain.Score, 0, len(docs))
	for _, d := range docs {
		scores = append(scores, d.toDomain())
	}
	return scores, nil
}

// EnsureIndexes creates indexes on the scores collection.
func (r *ScoreRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "score", Value: -1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "score", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
