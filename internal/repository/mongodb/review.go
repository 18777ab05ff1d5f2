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

type reviewDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	VolunteerID    primitive.ObjectID `bson:"volunteer_id"`
	OpportunityID  primitive.ObjectID `bson:"opportunity_id"`
	OrganizationID primitive.ObjectID `bson:"organization_id"`
	Rating         int                `bson:"rating"`
	Comment        string             `bson:"comment"`
	CreatedOn      time.Time          `bson:"created_on"`
	UpdatedOn      time.Time          `bson:"updated_on"`
}

func (d *reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:             d.ID.Hex(),
		VolunteerID:    hexOrEmpty(d.VolunteerID),
		OpportunityID:  hexOrEmpty(d.OpportunityID),
		OrganizationID: hexOrEmpty(d.OrganizationID),
		Rating:         d.Rating,
		Comment:        d.Comment,
		CreatedOn:      d.CreatedOn,
		UpdatedOn:      d.UpdatedOn,
	}
}

type reviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) repository.ReviewRepository {
	return &reviewRepository{coll: db.Collection(reviewsCollection)}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	vid, err := objectID(rv.VolunteerID)
	if err != nil {
		return err
	}
	oppID, err := objectID(rv.OpportunityID)
	if err != nil {
		return err
	}
	orgID, err := objectID(rv.OrganizationID)
	if err != nil {
		return err
	}
	ts := now()
	doc := reviewDoc{
		ID:             primitive.NewObjectID(),
		VolunteerID:    vid,
		OpportunityID:  oppID,
		OrganizationID: orgID,
		Rating:         rv.Rating,
		Comment:        rv.Comment,
		CreatedOn:      ts,
		UpdatedOn:      ts,
	}
	logger.DatabaseCall("INSERT", reviewsCollection, "volunteerID", rv.VolunteerID, "opportunityID", rv.OpportunityID)
	_, err = r.coll.InsertOne(ctx, doc)
	logger.DatabaseResult("INSERT", 1, err)
	if err != nil {
		return translate(err)
	}
	rv.ID = doc.ID.Hex()
	rv.CreatedOn = ts
	rv.UpdatedOn = ts
	return nil
}

func (r *reviewRepository) findOne(ctx context.Context, filter bson.M) (*domain.Review, error) {
	var doc reviewDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *reviewRepository) GetByVolunteerAndOpportunity(ctx context.Context, volunteerID, opportunityID string) (*domain.Review, error) {
	vid, err := objectID(volunteerID)
	if err != nil {
		return nil, err
	}
	oid, err := objectID(opportunityID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"volunteer_id": vid, "opportunity_id": oid})
}

func (r *reviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	oid, err := objectID(rv.ID)
	if err != nil {
		return err
	}
	rv.UpdatedOn = now()
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"rating":     rv.Rating,
		"comment":    rv.Comment,
		"updated_on": rv.UpdatedOn,
	}})
	if err != nil {
		return translate(err)
	}
	return requireMatched(res)
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Review, int64, error) {
	oid, err := objectID(organizationID)
	if err != nil {
		return nil, 0, err
	}
	filter := bson.M{"organization_id": oid}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_on", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	reviews, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.Review, error) {
	oid, err := objectID(opportunityID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"opportunity_id": oid}, options.Find().SetSort(bson.D{{Key: "created_on", Value: -1}}))
}

func (r *reviewRepository) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Review, error) {
	vid, err := objectID(volunteerID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"volunteer_id": vid}, options.Find().SetSort(bson.D{{Key: "created_on", Value: -1}}))
}

func (r *reviewRepository) RatingsByOrganization(ctx context.Context, organizationID string) ([]int, error) {
	oid, err := objectID(organizationID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetProjection(bson.M{"rating": 1})
	cur, err := r.coll.Find(ctx, bson.M{"organization_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	var docs []struct {
		Rating int `bson:"rating"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ratings := make([]int, 0, len(docs))
	for _, d := range docs {
		ratings = append(ratings, d.Rating)
	}
	return ratings, nil
}

func (r *reviewRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.Review, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}
