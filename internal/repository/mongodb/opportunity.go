package mongodb

import (
	"context"
	"regexp"
	"strings"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var opportunitySortFields = map[domain.OpportunitySort]string{
	domain.OpportunitySortEventDate:     "event_date",
	domain.OpportunitySortCreatedAt:     "created_on",
	domain.OpportunitySortDurationHours: "duration_hours",
	domain.OpportunitySortTitle:         "title",
}

type opportunityDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `bson:"organization_id"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	Tasks          string             `bson:"tasks"`
	Requirements   string             `bson:"requirements"`
	EventDate      time.Time          `bson:"event_date"`
	StartTime      string             `bson:"start_time"`
	EndTime        string             `bson:"end_time"`
	DurationHours  float64            `bson:"duration_hours"`
	Type           string             `bson:"opportunity_type"`
	Cause          string             `bson:"cause"`
	Location       string             `bson:"location"`
	MaxVolunteers  *int               `bson:"max_volunteers"`
	IsActive       bool               `bson:"is_active"`
	CreatedOn      time.Time          `bson:"created_on"`
	UpdatedOn      time.Time          `bson:"updated_on"`
}

func (d *opportunityDoc) toDomain() *domain.Opportunity {
	return &domain.Opportunity{
		ID:             d.ID.Hex(),
		OrganizationID: hexOrEmpty(d.OrganizationID),
		Title:          d.Title,
		Description:    d.Description,
		Tasks:          d.Tasks,
		Requirements:   d.Requirements,
		EventDate:      d.EventDate,
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		DurationHours:  d.DurationHours,
		Type:           domain.OpportunityType(d.Type),
		Cause:          domain.Cause(d.Cause),
		Location:       d.Location,
		MaxVolunteers:  d.MaxVolunteers,
		IsActive:       d.IsActive,
		CreatedOn:      d.CreatedOn,
		UpdatedOn:      d.UpdatedOn,
	}
}

type opportunityRepository struct {
	coll *mongo.Collection
}

func NewOpportunityRepository(db *mongo.Database) repository.OpportunityRepository {
	return &opportunityRepository{coll: db.Collection(opportunitiesCollection)}
}

func (r *opportunityRepository) Create(ctx context.Context, o *domain.Opportunity) error {
	logger.EnterMethod("opportunityRepository.Create", "organizationID", o.OrganizationID, "title", o.Title)
	orgID, err := objectID(o.OrganizationID)
	if err != nil {
		logger.ExitMethodWithError("opportunityRepository.Create", err)
		return err
	}
	ts := now()
	doc := opportunityDoc{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Title:          o.Title,
		Description:    o.Description,
		Tasks:          o.Tasks,
		Requirements:   o.Requirements,
		EventDate:      o.EventDate,
		StartTime:      o.StartTime,
		EndTime:        o.EndTime,
		DurationHours:  o.DurationHours,
		Type:           string(o.Type),
		Cause:          string(o.Cause),
		Location:       o.Location,
		MaxVolunteers:  o.MaxVolunteers,
		IsActive:       o.IsActive,
		CreatedOn:      ts,
		UpdatedOn:      ts,
	}
	logger.DatabaseCall("INSERT", opportunitiesCollection, "organizationID", o.OrganizationID)
	_, err = r.coll.InsertOne(ctx, doc)
	logger.DatabaseResult("INSERT", 1, err)
	if err != nil {
		logger.ExitMethodWithError("opportunityRepository.Create", err)
		return translate(err)
	}
	o.ID = doc.ID.Hex()
	o.CreatedOn = ts
	o.UpdatedOn = ts
	logger.ExitMethod("opportunityRepository.Create", "opportunityID", o.ID)
	return nil
}

func (r *opportunityRepository) GetByID(ctx context.Context, id string) (*domain.Opportunity, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc opportunityDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *opportunityRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Opportunity, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *opportunityRepository) Update(ctx context.Context, o *domain.Opportunity) error {
	oid, err := objectID(o.ID)
	if err != nil {
		return err
	}
	o.UpdatedOn = now()
	logger.DatabaseCall("UPDATE", opportunitiesCollection, "opportunityID", o.ID)
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":            o.Title,
		"description":      o.Description,
		"tasks":            o.Tasks,
		"requirements":     o.Requirements,
		"event_date":       o.EventDate,
		"start_time":       o.StartTime,
		"end_time":         o.EndTime,
		"duration_hours":   o.DurationHours,
		"opportunity_type": string(o.Type),
		"cause":            string(o.Cause),
		"location":         o.Location,
		"max_volunteers":   o.MaxVolunteers,
		"is_active":        o.IsActive,
		"updated_on":       o.UpdatedOn,
	}})
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return translate(err)
	}
	return requireMatched(res)
}

func (r *opportunityRepository) SetActive(ctx context.Context, id string, active bool) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"is_active": active, "updated_on": now()}})
	if err != nil {
		return translate(err)
	}
	return requireMatched(res)
}

// opportunityFilter renders the catalog filter as a query document.
func opportunityFilter(f domain.OpportunityFilter) bson.M {
	filter := bson.M{}
	if !f.IncludeInactive {
		filter["is_active"] = true
	}
	if f.OrganizationID != "" {
		if oid, err := primitive.ObjectIDFromHex(f.OrganizationID); err == nil {
			filter["organization_id"] = oid
		} else {
			filter["organization_id"] = primitive.NilObjectID
		}
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"location": re},
		}
	}
	if f.Cause != "" {
		filter["cause"] = string(f.Cause)
	}
	if f.Type != "" {
		filter["opportunity_type"] = string(f.Type)
	}
	if f.StartDate != nil || f.EndDate != nil {
		rng := bson.M{}
		if f.StartDate != nil {
			rng["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			rng["$lte"] = *f.EndDate
		}
		filter["event_date"] = rng
	}
	if f.MinHours != nil || f.MaxHours != nil {
		rng := bson.M{}
		if f.MinHours != nil {
			rng["$gte"] = *f.MinHours
		}
		if f.MaxHours != nil {
			rng["$lte"] = *f.MaxHours
		}
		filter["duration_hours"] = rng
	}
	return filter
}

func (r *opportunityRepository) List(ctx context.Context, f domain.OpportunityFilter) ([]domain.Opportunity, int64, error) {
	filter := opportunityFilter(f)

	logger.DatabaseCall("COUNT", opportunitiesCollection)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	field, ok := opportunitySortFields[f.SortBy]
	if !ok {
		field = "event_date"
	}
	dir := 1
	if f.Descending {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.Limit))

	opps, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return opps, total, nil
}

func (r *opportunityRepository) ListEndedBetween(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	filter := bson.M{
		"is_active":  true,
		"event_date": bson.M{"$gte": from, "$lt": to},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}}))
}

func (r *opportunityRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.Opportunity, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []opportunityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Opportunity, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}
