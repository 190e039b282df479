package listingRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"chalethaven/models"
	"chalethaven/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

func NewMongoListingRepo(db *mongo.Database) ListingRepository {
	repo := &MongoListingRepo{coll: db.Collection("chalets")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("listing indexes", zap.Error(err))
	}
	return repo
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

func (r *MongoListingRepo) findOne(ctx context.Context, filter bson.M) (*models.ListingRecord, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.ListingRecord
	if err := r.coll.FindOne(ctx, filter).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	return &rec, nil
}

func (r *MongoListingRepo) GetBySlug(ctx context.Context, slug string) (*models.ListingRecord, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// GetByID accepts either a hex ObjectID or a legacy string id.
func (r *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.ListingRecord, error) {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return r.findOne(ctx, bson.M{"_id": oid})
	}
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoListingRepo) List(ctx context.Context, f ListingFilter) ([]models.ListingRecord, int64, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := buildFilter(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve listings: %w", err)
	}
	defer cursor.Close(ctx)

	var recs []models.ListingRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode listings: %w", err)
	}
	return recs, total, nil
}

func buildFilter(f ListingFilter) bson.M {
	filter := bson.M{}
	if f.Active != nil {
		filter["availability.isActive"] = *f.Active
	}
	if f.MinGuests > 0 {
		filter["capacity.maxGuests"] = bson.M{"$gte": f.MinGuests}
	}
	var and []bson.M
	if f.Location != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"location.city": rx},
			{"location.region": rx},
			{"location.country": rx},
		}})
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"title": rx},
			{"description": rx},
		}})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}
	return filter
}

func (r *MongoListingRepo) Create(ctx context.Context, rec *models.ListingRecord) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update applies patch with a single $set and returns the updated document.
func (r *MongoListingRepo) Update(ctx context.Context, slug string, patch models.ListingPatch) (*models.ListingRecord, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	set := patchSet(patch)
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec models.ListingRecord
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"slug": slug}, bson.M{"$set": set}, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to update listing %s: %w", slug, err)
	}
	return &rec, nil
}

// patchSet flattens a patch into dotted $set paths so untouched subfields survive.
func patchSet(p models.ListingPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if rp := p.Pricing; rp != nil {
		if rp.BasePrice != nil {
			set["pricing.basePrice"] = *rp.BasePrice
		}
		if rp.CleaningFee != nil {
			set["pricing.cleaningFee"] = *rp.CleaningFee
		}
		if rp.SecurityDeposit != nil {
			set["pricing.securityDeposit"] = *rp.SecurityDeposit
		}
		if rp.TaxRate != nil {
			set["pricing.taxRate"] = *rp.TaxRate
		}
		if rp.Currency != nil {
			set["pricing.currency"] = *rp.Currency
		}
	}
	if cp := p.Capacity; cp != nil {
		if cp.MaxGuests != nil {
			set["capacity.maxGuests"] = *cp.MaxGuests
		}
		if cp.Bedrooms != nil {
			set["capacity.bedrooms"] = *cp.Bedrooms
		}
		if cp.Bathrooms != nil {
			set["capacity.bathrooms"] = *cp.Bathrooms
		}
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if ap := p.Availability; ap != nil {
		if ap.IsActive != nil {
			set["availability.isActive"] = *ap.IsActive
		}
		if ap.Blocked != nil {
			set["availability.blocked"] = ap.Blocked
		}
	}
	if p.Amenities != nil {
		set["amenities"] = p.Amenities
	}
	if p.Images != nil {
		set["images"] = p.Images
	}
	return set
}
