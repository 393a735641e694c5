package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/vidstream/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoVideoRepo struct {
	col *mongo.Collection
}

func NewMongoVideoRepo(db *mongo.Database, collection string) VideoRepository {
	return &mongoVideoRepo{col: db.Collection(collection)}
}

func (r *mongoVideoRepo) Insert(ctx context.Context, v *models.Video) error {
	v.CreatedAt = time.Now().UTC()
	v.UpdatedAt = v.CreatedAt
	res, err := r.col.InsertOne(ctx, v)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		v.ID = oid
	}
	return nil
}

func (r *mongoVideoRepo) FindByID(ctx context.Context, id string) (*models.Video, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrVideoNotFound
	}
	var v models.Video
	err = r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *mongoVideoRepo) IncrementViews(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrVideoNotFound
	}
	_, err = r.col.UpdateByID(ctx, objID, bson.M{"$inc": bson.M{"views": 1}})
	return err
}
