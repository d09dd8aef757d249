package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Joeykosseifi/JobLink-project-sub001/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
)

// UserRepository is the persistence boundary for user documents.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByEmailWithPassword is the only read that returns the stored
	// password hash; every other query projects it out.
	FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	AddConnectionRequest(ctx context.Context, to, from primitive.ObjectID) error
	AcceptConnectionRequest(ctx context.Context, userID, requesterID primitive.ObjectID) error
	SaveJob(ctx context.Context, userID, jobID primitive.ObjectID) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	// FindMissingBillingFields selects every user still lacking a
	// subscriptionPlan or billing substructure (legacy records created
	// before those fields existed).
	FindMissingBillingFields(ctx context.Context) ([]*models.User, error)
}

type mongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo wires a repository to the users collection and ensures
// the unique email index exists.
func NewMongoUserRepo(db *mongo.Database, collection string) UserRepository {
	col := db.Collection(collection)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoUserRepo{col: col}
}

var noPassword = options.FindOne().SetProjection(bson.D{{Key: "password", Value: 0}})

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}, noPassword).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}, noPassword).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Save writes the whole document back under its id. Callers must have run
// the pre-persist password step first; the repository never touches hashes.
func (r *mongoUserRepo) Save(ctx context.Context, u *models.User) error {
	res, err := r.col.UpdateByID(ctx, u.ID, bson.M{"$set": u})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepo) AddConnectionRequest(ctx context.Context, to, from primitive.ObjectID) error {
	res, err := r.col.UpdateByID(ctx, to, bson.M{"$addToSet": bson.M{"connectionRequests": from}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	_, err = r.col.UpdateByID(ctx, from, bson.M{"$addToSet": bson.M{"pendingConnections": to}})
	return err
}

func (r *mongoUserRepo) AcceptConnectionRequest(ctx context.Context, userID, requesterID primitive.ObjectID) error {
	res, err := r.col.UpdateByID(ctx, userID, bson.M{
		"$pull":     bson.M{"connectionRequests": requesterID},
		"$addToSet": bson.M{"connections": requesterID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	_, err = r.col.UpdateByID(ctx, requesterID, bson.M{
		"$pull":     bson.M{"pendingConnections": userID},
		"$addToSet": bson.M{"connections": userID},
	})
	return err
}

func (r *mongoUserRepo) SaveJob(ctx context.Context, userID, jobID primitive.ObjectID) error {
	res, err := r.col.UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"savedJobs": jobID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepo) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepo) FindMissingBillingFields(ctx context.Context) ([]*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"subscriptionPlan": bson.M{"$exists": false}},
		bson.M{"billing": bson.M{"$exists": false}},
	}}
	cur, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.D{{Key: "password", Value: 0}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
