package opportunity

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"milhas/internal/constants"
	"milhas/internal/market"
	"milhas/pkg/metrics"
	"milhas/pkg/models"
)

const (
	collOpportunities = "opportunities"
	collMarketData    = "market_data"
	collRawMessages   = "raw_messages"
	collUserProfiles  = "user_profiles"
	collAnalyses      = "analyses"
)

// Repository is the persistence surface of the pipeline. The same
// implementation also serves as the price history source for market
// snapshot refreshes.
type Repository interface {
	SaveOpportunity(ctx context.Context, rec *Record) error
	ListOpportunities(ctx context.Context, filter ListFilter) ([]Record, error)
	GetOpportunity(ctx context.Context, id string) (*Record, error)
	UpdateStatus(ctx context.Context, id, status string) error

	SaveRawMessage(ctx context.Context, msg models.RawMessage) error
	SaveAnalysis(ctx context.Context, kind string, payload interface{}) error

	SaveMarketPoint(ctx context.Context, point market.PricePoint) error
	PriceHistory(ctx context.Context, program string, days int) ([]market.PricePoint, error)

	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpsertUserProfile(ctx context.Context, profile *UserProfile) error

	Statistics(ctx context.Context) (*Statistics, error)
	Cleanup(ctx context.Context, olderThanDays int) (int64, error)
}

type MongoRepository struct {
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{db: db}
}

func (r *MongoRepository) SaveOpportunity(ctx context.Context, rec *Record) error {
	start := time.Now()
	_, err := r.db.Collection(collOpportunities).ReplaceOne(ctx,
		bson.M{"id": rec.ID},
		rec,
		options.Replace().SetUpsert(true),
	)
	r.observe("save_opportunity", start, err)
	if err != nil {
		return fmt.Errorf("failed to save opportunity %s: %w", rec.ID, err)
	}
	return nil
}

func (r *MongoRepository) ListOpportunities(ctx context.Context, filter ListFilter) ([]Record, error) {
	query := bson.M{}
	if filter.Program != "" {
		query["analysis.program"] = filter.Program
	}
	if filter.MinConfidence > 0 {
		query["confidence"] = bson.M{"$gte": filter.MinConfidence}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	start := time.Now()
	cursor, err := r.db.Collection(collOpportunities).Find(ctx, query, opts)
	r.observe("list_opportunities", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]Record, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode opportunities: %w", err)
	}
	return records, nil
}

func (r *MongoRepository) GetOpportunity(ctx context.Context, id string) (*Record, error) {
	start := time.Now()
	var rec Record
	err := r.db.Collection(collOpportunities).FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	r.observe("get_opportunity", start, err)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get opportunity %s: %w", id, err)
	}
	return &rec, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id, status string) error {
	start := time.Now()
	result, err := r.db.Collection(collOpportunities).UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	r.observe("update_status", start, err)
	if err != nil {
		return fmt.Errorf("failed to update opportunity %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) SaveRawMessage(ctx context.Context, msg models.RawMessage) error {
	start := time.Now()
	_, err := r.db.Collection(collRawMessages).InsertOne(ctx, msg)
	r.observe("save_raw_message", start, err)
	if err != nil {
		return fmt.Errorf("failed to save raw message %s: %w", msg.MessageID, err)
	}
	return nil
}

func (r *MongoRepository) SaveAnalysis(ctx context.Context, kind string, payload interface{}) error {
	start := time.Now()
	_, err := r.db.Collection(collAnalyses).InsertOne(ctx, bson.M{
		"kind":       kind,
		"payload":    payload,
		"created_at": time.Now().UTC(),
	})
	r.observe("save_analysis", start, err)
	if err != nil {
		return fmt.Errorf("failed to save %s analysis: %w", kind, err)
	}
	return nil
}

func (r *MongoRepository) SaveMarketPoint(ctx context.Context, point market.PricePoint) error {
	start := time.Now()
	_, err := r.db.Collection(collMarketData).InsertOne(ctx, point)
	r.observe("save_market_point", start, err)
	if err != nil {
		return fmt.Errorf("failed to save market point for %s: %w", point.Program, err)
	}
	return nil
}

// PriceHistory implements market.HistorySource.
func (r *MongoRepository) PriceHistory(ctx context.Context, program string, days int) ([]market.PricePoint, error) {
	if days <= 0 {
		days = constants.DefaultMarketDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	start := time.Now()
	cursor, err := r.db.Collection(collMarketData).Find(ctx, bson.M{
		"program": program,
		"date":    bson.M{"$gte": cutoff},
	}, opts)
	r.observe("price_history", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to read price history for %s: %w", program, err)
	}
	defer cursor.Close(ctx)

	points := make([]market.PricePoint, 0)
	if err := cursor.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("failed to decode price history for %s: %w", program, err)
	}
	return points, nil
}

func (r *MongoRepository) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	start := time.Now()
	var profile UserProfile
	err := r.db.Collection(collUserProfiles).FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	r.observe("get_user_profile", start, err)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

func (r *MongoRepository) UpsertUserProfile(ctx context.Context, profile *UserProfile) error {
	profile.UpdatedAt = time.Now().UTC()

	start := time.Now()
	_, err := r.db.Collection(collUserProfiles).ReplaceOne(ctx,
		bson.M{"user_id": profile.UserID},
		profile,
		options.Replace().SetUpsert(true),
	)
	r.observe("upsert_user_profile", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert profile for user %s: %w", profile.UserID, err)
	}
	return nil
}

func (r *MongoRepository) Statistics(ctx context.Context) (*Statistics, error) {
	coll := r.db.Collection(collOpportunities)

	start := time.Now()
	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.observe("statistics", start, err)
		return nil, fmt.Errorf("failed to count opportunities: %w", err)
	}

	active, err := coll.CountDocuments(ctx, bson.M{"status": StatusActive})
	if err != nil {
		r.observe("statistics", start, err)
		return nil, fmt.Errorf("failed to count active opportunities: %w", err)
	}

	stats := &Statistics{
		TotalOpportunities: total,
		ActiveCount:        active,
		ByProgram:          make(map[string]int64),
		ByType:             make(map[string]int64),
		GeneratedAt:        time.Now().UTC(),
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "program", Value: "$analysis.program"},
				{Key: "type", Value: "$analysis.opportunity_type"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg_confidence", Value: bson.D{{Key: "$avg", Value: "$confidence"}}},
		}}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	r.observe("statistics", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate opportunities: %w", err)
	}
	defer cursor.Close(ctx)

	var confidenceSum float64
	var grouped int64
	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Program string `bson:"program"`
				Type    string `bson:"type"`
			} `bson:"_id"`
			Count         int64   `bson:"count"`
			AvgConfidence float64 `bson:"avg_confidence"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode statistics row: %w", err)
		}
		if row.ID.Program != "" {
			stats.ByProgram[row.ID.Program] += row.Count
		}
		if row.ID.Type != "" {
			stats.ByType[row.ID.Type] += row.Count
		}
		confidenceSum += row.AvgConfidence * float64(row.Count)
		grouped += row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read statistics rows: %w", err)
	}
	if grouped > 0 {
		stats.AvgConfidence = confidenceSum / float64(grouped)
	}

	return stats, nil
}

// Cleanup purges finished opportunities past the cutoff, expires stale
// active ones and drops old raw messages. Finished records are deleted
// before the expiry pass so a record always survives at least one full
// retention window after expiring. Returns the number of affected
// documents.
func (r *MongoRepository) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		olderThanDays = constants.DefaultCleanupDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	start := time.Now()
	purged, err := r.db.Collection(collOpportunities).DeleteMany(ctx,
		bson.M{
			"status":     bson.M{"$in": []string{StatusExpired, StatusCompleted}},
			"created_at": bson.M{"$lt": cutoff},
		},
	)
	if err != nil {
		r.observe("cleanup", start, err)
		return 0, fmt.Errorf("failed to purge finished opportunities: %w", err)
	}

	expired, err := r.db.Collection(collOpportunities).UpdateMany(ctx,
		bson.M{"status": StatusActive, "created_at": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"status": StatusExpired, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		r.observe("cleanup", start, err)
		return purged.DeletedCount, fmt.Errorf("failed to expire old opportunities: %w", err)
	}

	dropped, err := r.db.Collection(collRawMessages).DeleteMany(ctx,
		bson.M{"date": bson.M{"$lt": cutoff}},
	)
	r.observe("cleanup", start, err)
	if err != nil {
		return purged.DeletedCount + expired.ModifiedCount, fmt.Errorf("failed to delete old raw messages: %w", err)
	}

	return purged.DeletedCount + expired.ModifiedCount + dropped.DeletedCount, nil
}

func (r *MongoRepository) observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil && err != mongo.ErrNoDocuments {
		status = "error"
	}
	metrics.IncDatabaseQuery("radar-service", "mongodb", operation, status)
	metrics.ObserveDatabaseQueryDuration("radar-service", "mongodb", operation, time.Since(start))
}
