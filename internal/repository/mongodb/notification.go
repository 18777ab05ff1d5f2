package mongodb

import (
	"context"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type notificationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID primitive.ObjectID `bson:"account_id"`
	Type      string             `bson:"type"`
	Title     string             `bson:"title"`
	Message   string             `bson:"message"`
	IsRead    bool               `bson:"is_read"`
	CreatedOn time.Time          `bson:"created_on"`
}

type notificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &notificationRepository{coll: db.Collection(notificationsCollection)}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "accountID", n.AccountID, "type", n.Type)
	accountID, err := objectID(n.AccountID)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "accountID", n.AccountID)
		return err
	}
	doc := notificationDoc{
		ID:        primitive.NewObjectID(),
		AccountID: accountID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedOn: now(),
	}
	logger.DatabaseCall("INSERT", notificationsCollection, "accountID", n.AccountID)
	_, err = r.coll.InsertOne(ctx, doc)
	logger.DatabaseResult("INSERT", 1, err)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "accountID", n.AccountID)
		return translate(err)
	}
	n.ID = doc.ID.Hex()
	n.CreatedOn = doc.CreatedOn
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, accountID string, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, error) {
	oid, err := objectID(accountID)
	if err != nil {
		return nil, 0, err
	}
	filter := bson.M{"account_id": oid}
	if unreadOnly {
		filter["is_read"] = false
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_on", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []notificationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	notes := make([]domain.Notification, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, domain.Notification{
			ID:        d.ID.Hex(),
			AccountID: d.AccountID.Hex(),
			Type:      domain.NotificationType(d.Type),
			Title:     d.Title,
			Message:   d.Message,
			IsRead:    d.IsRead,
			CreatedOn: d.CreatedOn,
		})
	}
	return notes, count, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, accountID string) (int64, error) {
	oid, err := objectID(accountID)
	if err != nil {
		return 0, err
	}
	return r.coll.CountDocuments(ctx, bson.M{"account_id": oid, "is_read": false})
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, accountID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	aid, err := objectID(accountID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid, "account_id": aid}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	return requireMatched(res)
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, accountID string) (int64, error) {
	aid, err := objectID(accountID)
	if err != nil {
		return 0, err
	}
	res, err := r.coll.UpdateMany(ctx, bson.M{"account_id": aid, "is_read": false}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
