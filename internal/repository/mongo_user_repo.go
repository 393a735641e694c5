package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fathima-sithara/vidstream/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const subscriptionsCollection = "subscriptions"

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database, collection string) UserRepository {
	col := db.Collection(collection)
	// indexes
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		var writeException mongo.WriteException
		if errors.As(err, &writeException) {
			for _, we := range writeException.WriteErrors {
				if we.Code == 11000 {
					return ErrDuplicateUser
				}
			}
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	var u models.User
	err = r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindSanitizedByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	opts := options.FindOne().SetProjection(bson.M{"password": 0, "refreshToken": 0})
	var u models.User
	err = r.col.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"username": strings.ToLower(username)},
		{"email": strings.ToLower(email)},
	}}
	var u models.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.setByID(ctx, id, bson.M{"$set": bson.M{"refreshToken": token, "updatedAt": time.Now().UTC()}})
}

func (r *mongoUserRepo) ClearRefreshToken(ctx context.Context, id string) error {
	return r.setByID(ctx, id, bson.M{"$unset": bson.M{"refreshToken": ""}})
}

func (r *mongoUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.setByID(ctx, id, bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()}})
}

func (r *mongoUserRepo) UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*models.User, error) {
	return r.updateAndFetch(ctx, id, bson.M{"fullName": fullName, "email": strings.ToLower(email)})
}

func (r *mongoUserRepo) UpdateAvatar(ctx context.Context, id, url string) (*models.User, error) {
	return r.updateAndFetch(ctx, id, bson.M{"avatar": url})
}

func (r *mongoUserRepo) UpdateCoverImage(ctx context.Context, id, url string) (*models.User, error) {
	return r.updateAndFetch(ctx, id, bson.M{"coverImage": url})
}

func (r *mongoUserRepo) AddToWatchHistory(ctx context.Context, id string, videoID primitive.ObjectID) error {
	return r.setByID(ctx, id, bson.M{"$addToSet": bson.M{"watchHistory": videoID}})
}

func (r *mongoUserRepo) setByID(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}
	_, err = r.col.UpdateByID(ctx, objID, update)
	return err
}

func (r *mongoUserRepo) updateAndFetch(ctx context.Context, id string, fields bson.M) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0, "refreshToken": 0})
	var u models.User
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": fields}, opts).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) ChannelProfile(ctx context.Context, username string, viewerID *primitive.ObjectID) (*models.ChannelProfile, error) {
	pipeline := channelProfilePipeline(username, viewerID)
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var out []models.ChannelProfile
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrUserNotFound
	}
	return &out[0], nil
}

func (r *mongoUserRepo) WatchHistory(ctx context.Context, id string) ([]models.WatchVideo, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	cursor, err := r.col.Aggregate(ctx, watchHistoryPipeline(objID))
	if err != nil {
		return nil, err
	}
	var out []struct {
		WatchHistory []models.WatchVideo `bson:"watchHistory"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrUserNotFound
	}
	return out[0].WatchHistory, nil
}

// channelProfilePipeline correlates the user against subscriptions twice:
// once as channel (who subscribes to them) and once as subscriber (who they
// subscribe to), then projects the public view.
func channelProfilePipeline(username string, viewerID *primitive.ObjectID) mongo.Pipeline {
	isSubscribed := bson.M{"$literal": false}
	if viewerID != nil {
		isSubscribed = bson.M{"$cond": bson.M{
			"if":   bson.M{"$in": bson.A{*viewerID, "$subscribers.subscriber"}},
			"then": true,
			"else": false,
		}}
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"username": strings.ToLower(username)}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         subscriptionsCollection,
			"localField":   "_id",
			"foreignField": "channel",
			"as":           "subscribers",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         subscriptionsCollection,
			"localField":   "_id",
			"foreignField": "subscriber",
			"as":           "subscribedTo",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"subscriberCount":           bson.M{"$size": "$subscribers"},
			"channelsSubscribedToCount": bson.M{"$size": "$subscribedTo"},
			"isSubscribed":              isSubscribed,
		}}},
		{{Key: "$project", Value: bson.M{
			"fullName":                  1,
			"username":                  1,
			"email":                     1,
			"avatar":                    1,
			"coverImage":                1,
			"subscriberCount":           1,
			"channelsSubscribedToCount": 1,
			"isSubscribed":              1,
		}}},
	}
}

// watchHistoryPipeline joins the watchHistory id list against videos, nesting
// a reduced owner projection per video.
func watchHistoryPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "videos",
			"localField":   "watchHistory",
			"foreignField": "_id",
			"as":           "watchHistory",
			"pipeline": bson.A{
				bson.M{"$lookup": bson.M{
					"from":         "users",
					"localField":   "owner",
					"foreignField": "_id",
					"as":           "owner",
					"pipeline": bson.A{
						bson.M{"$project": bson.M{
							"fullName": 1,
							"username": 1,
							"avatar":   1,
						}},
					},
				}},
				bson.M{"$addFields": bson.M{
					"owner": bson.M{"$first": "$owner"},
				}},
			},
		}}},
	}
}
