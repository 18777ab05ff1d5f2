// Package mongodb implements the repository interfaces on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	accountsCollection      = "accounts"
	volunteersCollection    = "volunteer_profiles"
	organizationsCollection = "organization_profiles"
	opportunitiesCollection = "opportunities"
	signupsCollection       = "signups"
	notificationsCollection = "notifications"
	reviewsCollection       = "reviews"
)

type Store struct {
	client        *mongo.Client
	db            *mongo.Database
	accounts      repository.AccountRepository
	volunteers    repository.VolunteerRepository
	organizations repository.OrganizationRepository
	opportunities repository.OpportunityRepository
	signups       repository.SignupRepository
	notifications repository.NotificationRepository
	reviews       repository.ReviewRepository
}

var _ repository.Store = (*Store)(nil)

// Connect dials MongoDB and returns a store bound to database.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.ExternalServiceCall("mongodb", "connect", "database", database)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.ExternalServiceResult("mongodb", "connect", err)
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.ExternalServiceResult("mongodb", "ping", err)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	logger.ExternalServiceResult("mongodb", "connect", nil)

	s := NewStore(client.Database(database))
	s.client = client
	return s, nil
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		db:            db,
		accounts:      NewAccountRepository(db),
		volunteers:    NewVolunteerRepository(db),
		organizations: NewOrganizationRepository(db),
		opportunities: NewOpportunityRepository(db),
		signups:       NewSignupRepository(db),
		notifications: NewNotificationRepository(db),
		reviews:       NewReviewRepository(db),
	}
}

func (s *Store) Accounts() repository.AccountRepository           { return s.accounts }
func (s *Store) Volunteers() repository.VolunteerRepository       { return s.volunteers }
func (s *Store) Organizations() repository.OrganizationRepository { return s.organizations }
func (s *Store) Opportunities() repository.OpportunityRepository  { return s.opportunities }
func (s *Store) Signups() repository.SignupRepository             { return s.signups }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }
func (s *Store) Reviews() repository.ReviewRepository             { return s.reviews }

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Migrate creates the indexes the repositories rely on for uniqueness and lookups.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		accountsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{
				Keys: bson.D{{Key: "google_id", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"google_id": bson.M{"$type": "string"}}),
			},
			{Keys: bson.D{{Key: "reset_token_hash", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		volunteersCollection: {
			{Keys: bson.D{{Key: "account_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		organizationsCollection: {
			{Keys: bson.D{{Key: "account_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		opportunitiesCollection: {
			{Keys: bson.D{{Key: "organization_id", Value: 1}}},
			{Keys: bson.D{{Key: "event_date", Value: 1}}},
		},
		signupsCollection: {
			{
				Keys: bson.D{{Key: "volunteer_id", Value: 1}, {Key: "opportunity_id", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": bson.M{"$in": nonCancelledStatuses()}}),
			},
			{Keys: bson.D{{Key: "opportunity_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "transition_id", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "created_on", Value: -1}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "volunteer_id", Value: 1}, {Key: "opportunity_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "organization_id", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		logger.DatabaseCall("CREATE INDEXES", coll, "count", len(models))
		_, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models)
		logger.DatabaseResult("CREATE INDEXES", int64(len(models)), err, "collection", coll)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// objectID parses a hex id. Malformed ids can never match a document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

func requireMatched(res *mongo.UpdateResult) error {
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
