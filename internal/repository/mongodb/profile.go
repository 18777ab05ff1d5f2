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

type volunteerDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	AccountID         primitive.ObjectID `bson:"account_id"`
	DisplayName       string             `bson:"display_name"`
	AboutMe           string             `bson:"about_me"`
	ProfilePictureURL string             `bson:"profile_picture_url"`
	TotalHours        float64            `bson:"total_hours"`
	Completed         int                `bson:"completed"`
	CreatedOn         time.Time          `bson:"created_on"`
	UpdatedOn         time.Time          `bson:"updated_on"`
}

func (d *volunteerDoc) toDomain() *domain.VolunteerProfile {
	return &domain.VolunteerProfile{
		ID:                d.ID.Hex(),
		AccountID:         hexOrEmpty(d.AccountID),
		DisplayName:       d.DisplayName,
		AboutMe:           d.AboutMe,
		ProfilePictureURL: d.ProfilePictureURL,
		TotalHours:        d.TotalHours,
		Completed:         d.Completed,
		CreatedOn:         d.CreatedOn,
		UpdatedOn:         d.UpdatedOn,
	}
}

type volunteerRepository struct {
	coll *mongo.Collection
}

func NewVolunteerRepository(db *mongo.Database) repository.VolunteerRepository {
	return &volunteerRepository{coll: db.Collection(volunteersCollection)}
}

func (r *volunteerRepository) Create(ctx context.Context, p *domain.VolunteerProfile) error {
	accountID, err := objectID(p.AccountID)
	if err != nil {
		return err
	}
	ts := now()
	doc := volunteerDoc{
		ID:                primitive.NewObjectID(),
		AccountID:         accountID,
		DisplayName:       p.DisplayName,
		AboutMe:           p.AboutMe,
		ProfilePictureURL: p.ProfilePictureURL,
		TotalHours:        p.TotalHours,
		Completed:         p.Completed,
		CreatedOn:         ts,
		UpdatedOn:         ts,
	}
	logger.DatabaseCall("INSERT", volunteersCollection, "accountID", p.AccountID)
	_, err = r.coll.InsertOne(ctx, doc)
	logger.DatabaseResult("INSERT", 1, err)
	if err != nil {
		return translate(err)
	}
	p.ID = doc.ID.Hex()
	p.CreatedOn = ts
	p.UpdatedOn = ts
	return nil
}

func (r *volunteerRepository) findOne(ctx context.Context, filter bson.M) (*domain.VolunteerProfile, error) {
	var doc volunteerDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *volunteerRepository) GetByID(ctx context.Context, id string) (*domain.VolunteerProfile, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *volunteerRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.VolunteerProfile, error) {
	oid, err := objectID(accountID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"account_id": oid})
}

func (r *volunteerRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.VolunteerProfile, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var docs []volunteerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.VolunteerProfile, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

func (r *volunteerRepository) Update(ctx context.Context, p *domain.VolunteerProfile) error {
	oid, err := objectID(p.ID)
	if err != nil {
		return err
	}
	p.UpdatedOn = now()
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"display_name":        p.DisplayName,
		"about_me":            p.AboutMe,
		"profile_picture_url": p.ProfilePictureURL,
		"updated_on":          p.UpdatedOn,
	}})
	if err != nil {
		return translate(err)
	}
	return requireMatched(res)
}

func (r *volunteerRepository) AddHours(ctx context.Context, id string, hours float64) (*domain.VolunteerProfile, error) {
	logger.EnterMethod("volunteerRepository.AddHours", "profileID", id, "hours", hours)
	oid, err := objectID(id)
	if err != nil {
		logger.ExitMethodWithError("volunteerRepository.AddHours", err, "profileID", id)
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$inc": bson.M{"total_hours": hours, "completed": 1},
		"$set": bson.M{"updated_on": now()},
	}
	logger.DatabaseCall("FIND_AND_MODIFY", volunteersCollection, "profileID", id)
	var doc volunteerDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		logger.ExitMethodWithError("volunteerRepository.AddHours", err, "profileID", id)
		return nil, translate(err)
	}
	logger.ExitMethod("volunteerRepository.AddHours", "profileID", id, "totalHours", doc.TotalHours)
	return doc.toDomain(), nil
}

func (r *volunteerRepository) DeleteByAccountID(ctx context.Context, accountID string) error {
	oid, err := objectID(accountID)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"account_id": oid})
	return err
}

type organizationDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	AccountID        primitive.ObjectID `bson:"account_id"`
	OrganizationName string             `bson:"organization_name"`
	Mission          string             `bson:"mission"`
	LogoURL          string             `bson:"logo_url"`
	ContactEmail     string             `bson:"contact_email"`
	ContactPhone     string             `bson:"contact_phone"`
	Website          string             `bson:"website"`
	Address          string             `bson:"address"`
	AverageRating    float64            `bson:"average_rating"`
	TotalReviews     int                `bson:"total_reviews"`
	CreatedOn        time.Time          `bson:"created_on"`
	UpdatedOn        time.Time          `bson:"updated_on"`
}

func (d *organizationDoc) toDomain() *domain.OrganizationProfile {
	return &domain.OrganizationProfile{
		ID:               d.ID.Hex(),
		AccountID:        hexOrEmpty(d.AccountID),
		OrganizationName: d.OrganizationName,
		Mission:          d.Mission,
		LogoURL:          d.LogoURL,
		ContactEmail:     d.ContactEmail,
		ContactPhone:     d.ContactPhone,
		Website:          d.Website,
		Address:          d.Address,
		AverageRating:    d.AverageRating,
		TotalReviews:     d.TotalReviews,
		CreatedOn:        d.CreatedOn,
		UpdatedOn:        d.UpdatedOn,
	}
}

type organizationRepository struct {
	coll *mongo.Collection
}

func NewOrganizationRepository(db *mongo.Database) repository.OrganizationRepository {
	return &organizationRepository{coll: db.Collection(organizationsCollection)}
}

func (r *organizationRepository) Create(ctx context.Context, o *domain.OrganizationProfile) error {
	accountID, err := objectID(o.AccountID)
	if err != nil {
		return err
	}
	ts := now()
	doc := organizationDoc{
		ID:               primitive.NewObjectID(),
		AccountID:        accountID,
		OrganizationName: o.OrganizationName,
		Mission:          o.Mission,
		LogoURL:          o.LogoURL,
		ContactEmail:     o.ContactEmail,
		ContactPhone:     o.ContactPhone,
		Website:          o.Website,
		Address:          o.Address,
		AverageRating:    o.AverageRating,
		TotalReviews:     o.TotalReviews,
		CreatedOn:        ts,
		UpdatedOn:        ts,
	}
	logger.DatabaseCall("INSERT", organizationsCollection, "accountID", o.AccountID)
	_, err = r.coll.InsertOne(ctx, doc)
	logger.DatabaseResult("INSERT", 1, err)
	if err != nil {
		return translate(err)
	}
	o.ID = doc.ID.Hex()
	o.CreatedOn = ts
	o.UpdatedOn = ts
	return nil
}

func (r *organizationRepository) findOne(ctx context.Context, filter bson.M) (*domain.OrganizationProfile, error) {
	var doc organizationDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.OrganizationProfile, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *organizationRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.OrganizationProfile, error) {
	oid, err := objectID(accountID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"account_id": oid})
}

func (r *organizationRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.OrganizationProfile, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var docs []organizationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.OrganizationProfile, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.OrganizationProfile) error {
	oid, err := objectID(o.ID)
	if err != nil {
		return err
	}
	o.UpdatedOn = now()
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"organization_name": o.OrganizationName,
		"mission":           o.Mission,
		"logo_url":          o.LogoURL,
		"contact_email":     o.ContactEmail,
		"contact_phone":     o.ContactPhone,
		"website":           o.Website,
		"address":           o.Address,
		"updated_on":        o.UpdatedOn,
	}})
	if err != nil {
		return translate(err)
	}
	return requireMatched(res)
}

func (r *organizationRepository) UpdateRating(ctx context.Context, id string, average float64, total int) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	logger.DatabaseCall("UPDATE", organizationsCollection, "profileID", id, "average", average, "total", total)
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"average_rating": average,
		"total_reviews":  total,
		"updated_on":     now(),
	}})
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return translate(err)
	}
	logger.DatabaseResult("UPDATE", res.ModifiedCount, nil)
	return requireMatched(res)
}

func (r *organizationRepository) DeleteByAccountID(ctx context.Context, accountID string) error {
	oid, err := objectID(accountID)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"account_id": oid})
	return err
}
