package mongodb

import (
	"context"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type signupDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	VolunteerID   primitive.ObjectID `bson:"volunteer_id"`
	OpportunityID primitive.ObjectID `bson:"opportunity_id"`
	Status        string             `bson:"status"`
	SignedUpAt    time.Time          `bson:"signed_up_at"`
	ConfirmedAt   *time.Time         `bson:"confirmed_at,omitempty"`
	RejectedAt    *time.Time         `bson:"rejected_at,omitempty"`
	Attended      *bool              `bson:"attended,omitempty"`
	HoursAwarded  float64            `bson:"hours_awarded"`
	TransitionID  string             `bson:"transition_id,omitempty"`
	CreatedOn     time.Time          `bson:"created_on"`
	UpdatedOn     time.Time          `bson:"updated_on"`
}

func (d *signupDoc) toDomain() *domain.Signup {
	return &domain.Signup{
		ID:            d.ID.Hex(),
		VolunteerID:   hexOrEmpty(d.VolunteerID),
		OpportunityID: hexOrEmpty(d.OpportunityID),
		Status:        domain.SignupStatus(d.Status),
		SignedUpAt:    d.SignedUpAt,
		ConfirmedAt:   d.ConfirmedAt,
		RejectedAt:    d.RejectedAt,
		Attended:      d.Attended,
		HoursAwarded:  d.HoursAwarded,
		CreatedOn:     d.CreatedOn,
		UpdatedOn:     d.UpdatedOn,
	}
}

func nonCancelledStatuses() bson.A {
	out := bson.A{}
	for _, s := range domain.NonCancelledSignupStatuses {
		out = append(out, string(s))
	}
	return out
}

func statusIn(statuses []domain.SignupStatus) bson.M {
	in := bson.A{}
	for _, s := range statuses {
		in = append(in, string(s))
	}
	return bson.M{"$in": in}
}

// transitionUpdate builds the $set document for a status change.
func transitionUpdate(p domain.SignupTransition, transitionID string) bson.M {
	set := bson.M{
		"status":        string(p.Status),
		"transition_id": transitionID,
		"updated_on":    now(),
	}
	if p.ConfirmedAt != nil {
		set["confirmed_at"] = p.ConfirmedAt.UTC()
	}
	if p.RejectedAt != nil {
		set["rejected_at"] = p.RejectedAt.UTC()
	}
	if p.Attended != nil {
		set["attended"] = *p.Attended
	}
	if p.HoursAwarded != nil {
		set["hours_awarded"] = *p.HoursAwarded
	}
	update := bson.M{"$set": set}
	if p.ClearAttended {
		delete(set, "attended")
		update["$unset"] = bson.M{"attended": ""}
	}
	return update
}

type signupRepository struct {
	coll *mongo.Collection
}

func NewSignupRepository(db *mongo.Database) repository.SignupRepository {
	return &signupRepository{coll: db.Collection(signupsCollection)}
}

func (r *signupRepository) Create(ctx context.Context, s *domain.Signup) error {
	logger.EnterMethod("signupRepository.Create", "volunteerID", s.VolunteerID, "opportunityID", s.OpportunityID)
	volunteerID, err := objectID(s.VolunteerID)
	if err != nil {
		return err
	}
	opportunityID, err := objectID(s.OpportunityID)
	if err != nil {
		return err
	}
	ts := now()
	if s.SignedUpAt.IsZero() {
		s.SignedUpAt = ts
	}
	doc := signupDoc{
		ID:            primitive.NewObjectID(),
		VolunteerID:   volunteerID,
		OpportunityID: opportunityID,
		Status:        string(s.Status),
		SignedUpAt:    s.SignedUpAt,
		ConfirmedAt:   s.ConfirmedAt,
		RejectedAt:    s.RejectedAt,
		Attended:      s.Attended,
		HoursAwarded:  s.HoursAwarded,
		CreatedOn:     ts,
		UpdatedOn:     ts,
	}
	logger.DatabaseCall("INSERT", signupsCollection, "volunteerID", s.VolunteerID, "opportunityID", s.OpportunityID)
	_, err = r.coll.InsertOne(ctx, doc)
	logger.DatabaseResult("INSERT", 1, err)
	if err != nil {
		logger.ExitMethodWithError("signupRepository.Create", err)
		return translate(err)
	}
	s.ID = doc.ID.Hex()
	s.CreatedOn = ts
	s.UpdatedOn = ts
	logger.ExitMethod("signupRepository.Create", "signupID", s.ID)
	return nil
}

func (r *signupRepository) GetByID(ctx context.Context, id string) (*domain.Signup, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc signupDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *signupRepository) FindOne(ctx context.Context, volunteerID, opportunityID string, statuses ...domain.SignupStatus) (*domain.Signup, error) {
	vid, err := objectID(volunteerID)
	if err != nil {
		return nil, err
	}
	oid, err := objectID(opportunityID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"volunteer_id": vid, "opportunity_id": oid}
	if len(statuses) > 0 {
		filter["status"] = statusIn(statuses)
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_on", Value: -1}})
	var doc signupDoc
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *signupRepository) CountByOpportunity(ctx context.Context, opportunityID string, statuses ...domain.SignupStatus) (int, error) {
	oid, err := objectID(opportunityID)
	if err != nil {
		return 0, err
	}
	filter := bson.M{"opportunity_id": oid}
	if len(statuses) > 0 {
		filter["status"] = statusIn(statuses)
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	return int(n), err
}

func (r *signupRepository) ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.Signup, error) {
	oid, err := objectID(opportunityID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"opportunity_id": oid}, options.Find().SetSort(bson.D{{Key: "signed_up_at", Value: 1}}))
}

func (r *signupRepository) ListByVolunteer(ctx context.Context, volunteerID string, status domain.SignupStatus, limit, offset int) ([]domain.Signup, int64, error) {
	vid, err := objectID(volunteerID)
	if err != nil {
		return nil, 0, err
	}
	filter := bson.M{"volunteer_id": vid}
	if status != "" {
		filter["status"] = string(status)
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "signed_up_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	signups, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return signups, total, nil
}

func (r *signupRepository) transitionOne(ctx context.Context, filter bson.M, patch domain.SignupTransition) (*domain.Signup, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	logger.DatabaseCall("FIND_AND_MODIFY", signupsCollection, "to", patch.Status)
	var doc signupDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, transitionUpdate(patch, uuid.NewString()), opts).Decode(&doc)
	logger.DatabaseResult("FIND_AND_MODIFY", 1, err)
	if err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *signupRepository) Transition(ctx context.Context, id string, from domain.SignupStatus, patch domain.SignupTransition) (*domain.Signup, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.transitionOne(ctx, bson.M{"_id": oid, "status": string(from)}, patch)
}

func (r *signupRepository) TransitionByPair(ctx context.Context, opportunityID, volunteerID string, from domain.SignupStatus, patch domain.SignupTransition) (*domain.Signup, error) {
	oid, err := objectID(opportunityID)
	if err != nil {
		return nil, err
	}
	vid, err := objectID(volunteerID)
	if err != nil {
		return nil, err
	}
	return r.transitionOne(ctx, bson.M{"opportunity_id": oid, "volunteer_id": vid, "status": string(from)}, patch)
}

// TransitionAll stamps every matched document with a fresh transition id so
// the affected set can be read back after the single UpdateMany.
func (r *signupRepository) TransitionAll(ctx context.Context, opportunityID string, from domain.SignupStatus, patch domain.SignupTransition) ([]domain.Signup, error) {
	oid, err := objectID(opportunityID)
	if err != nil {
		return nil, err
	}
	transitionID := uuid.NewString()
	logger.DatabaseCall("UPDATE_MANY", signupsCollection, "opportunityID", opportunityID, "from", from, "to", patch.Status)
	res, err := r.coll.UpdateMany(ctx, bson.M{"opportunity_id": oid, "status": string(from)}, transitionUpdate(patch, transitionID))
	if err != nil {
		logger.DatabaseResult("UPDATE_MANY", 0, err)
		return nil, err
	}
	logger.DatabaseResult("UPDATE_MANY", res.ModifiedCount, nil)
	if res.ModifiedCount == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"transition_id": transitionID})
}

func (r *signupRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.Signup, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []signupDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Signup, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}
