package leadRepo

import (
	"context"
	"fmt"
	"time"

	"chalethaven/models"
	"chalethaven/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoLeadRepo struct {
	coll *mongo.Collection
}

func NewMongoLeadRepo(db *mongo.Database) LeadRepository {
	repo := &MongoLeadRepo{coll: db.Collection("leads")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		utils.GetLogger().Warn("lead indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoLeadRepo) Create(ctx context.Context, lead *models.Lead) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	lead.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("failed to store lead: %w", err)
	}
	return nil
}

func (r *MongoLeadRepo) MarkNotified(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"notified": true, "notifiedAt": now}})
	if err != nil {
		return fmt.Errorf("failed to update lead %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrLeadNotFound
	}
	return nil
}
