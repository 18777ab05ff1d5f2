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
)

type accountDoc struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Email               string             `bson:"email"`
	PasswordHash        string             `bson:"password_hash,omitempty"`
	GoogleID            string             `bson:"google_id,omitempty"`
	Kind                string             `bson:"kind"`
	IsActive            bool               `bson:"is_active"`
	ResetTokenHash      string             `bson:"reset_token_hash,omitempty"`
	ResetTokenExpiresOn *time.Time         `bson:"reset_token_expires_on,omitempty"`
	CreatedOn           time.Time          `bson:"created_on"`
	UpdatedOn           time.Time          `bson:"updated_on"`
}

func (d *accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:                  d.ID.Hex(),
		Email:               d.Email,
		PasswordHash:        d.PasswordHash,
		GoogleID:            d.GoogleID,
		Kind:                domain.AccountKind(d.Kind),
		IsActive:            d.IsActive,
		ResetTokenHash:      d.ResetTokenHash,
		ResetTokenExpiresOn: d.ResetTokenExpiresOn,
		CreatedOn:           d.CreatedOn,
		UpdatedOn:           d.UpdatedOn,
	}
}

type accountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) repository.AccountRepository {
	return &accountRepository{coll: db.Collection(accountsCollection)}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	logger.EnterMethod("accountRepository.Create", "email", a.Email, "kind", a.Kind)
	ts := now()
	doc := accountDoc{
		ID:                  primitive.NewObjectID(),
		Email:               a.Email,
		PasswordHash:        a.PasswordHash,
		GoogleID:            a.GoogleID,
		Kind:                string(a.Kind),
		IsActive:            a.IsActive,
		ResetTokenHash:      a.ResetTokenHash,
		ResetTokenExpiresOn: a.ResetTokenExpiresOn,
		CreatedOn:           ts,
		UpdatedOn:           ts,
	}
	logger.DatabaseCall("INSERT", accountsCollection, "email", a.Email)
	_, err := r.coll.InsertOne(ctx, doc)
	logger.DatabaseResult("INSERT", 1, err)
	if err != nil {
		logger.ExitMethodWithError("accountRepository.Create", err, "email", a.Email)
		return translate(err)
	}
	a.ID = doc.ID.Hex()
	a.CreatedOn = ts
	a.UpdatedOn = ts
	logger.ExitMethod("accountRepository.Create", "accountID", a.ID)
	return nil
}

func (r *accountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *accountRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"google_id": googleID})
}

func (r *accountRepository) LinkGoogleID(ctx context.Context, id, googleID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"google_id": googleID, "updated_on": now()}})
	if err != nil {
		return translate(err)
	}
	return requireMatched(res)
}

func (r *accountRepository) Update(ctx context.Context, a *domain.Account) error {
	oid, err := objectID(a.ID)
	if err != nil {
		return err
	}
	a.UpdatedOn = now()
	set := bson.M{
		"email":      a.Email,
		"is_active":  a.IsActive,
		"updated_on": a.UpdatedOn,
	}
	unset := bson.M{}
	for field, value := range map[string]string{
		"password_hash":    a.PasswordHash,
		"google_id":        a.GoogleID,
		"reset_token_hash": a.ResetTokenHash,
	} {
		if value == "" {
			unset[field] = ""
		} else {
			set[field] = value
		}
	}
	if a.ResetTokenExpiresOn != nil {
		set["reset_token_expires_on"] = *a.ResetTokenExpiresOn
	} else {
		unset["reset_token_expires_on"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	logger.DatabaseCall("UPDATE", accountsCollection, "accountID", a.ID)
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return translate(err)
	}
	logger.DatabaseResult("UPDATE", res.ModifiedCount, nil)
	return requireMatched(res)
}

func (r *accountRepository) GetByResetToken(ctx context.Context, tokenHash string, at time.Time) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{
		"reset_token_hash":       tokenHash,
		"reset_token_expires_on": bson.M{"$gt": at},
	})
}

func (r *accountRepository) ClearExpiredResetTokens(ctx context.Context, at time.Time) (int64, error) {
	logger.DatabaseCall("UPDATE", accountsCollection, "op", "clearExpiredResetTokens")
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"reset_token_expires_on": bson.M{"$lte": at}},
		bson.M{"$unset": bson.M{"reset_token_hash": "", "reset_token_expires_on": ""}},
	)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, err
	}
	logger.DatabaseResult("UPDATE", res.ModifiedCount, nil)
	return res.ModifiedCount, nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
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
