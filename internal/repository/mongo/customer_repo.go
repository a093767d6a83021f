package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymflow/membership-app/internal/domain"
	"gymflow/membership-app/internal/repository"
)

const customerCollectionName = "customers"

// mongoCustomerRepository implements the repository.CustomerRepository interface using MongoDB.
type mongoCustomerRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomerRepository creates a new instance of mongoCustomerRepository.
func NewMongoCustomerRepository(db *mongo.Database) repository.CustomerRepository {
	return &mongoCustomerRepository{
		collection: db.Collection(customerCollectionName),
	}
}

// Create inserts a new customer profile into the database.
func (r *mongoCustomerRepository) Create(ctx context.Context, customer *domain.Customer) (primitive.ObjectID, error) {
	if customer.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("customer user ID is required")
	}

	customer.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		// userId carries a unique index: one profile per user.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByUserID retrieves the customer profile linked to the given user.
func (r *mongoCustomerRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Customer, error) {
	var customer domain.Customer
	filter := bson.M{"userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// SetAssignedTrainer overwrites the customer's assigned trainer. Reassignment
// replaces the previous trainer; no history is kept on the customer document.
func (r *mongoCustomerRepository) SetAssignedTrainer(ctx context.Context, customerUserID, trainerID primitive.ObjectID) error {
	filter := bson.M{"userId": customerUserID}
	update := bson.M{
		"$set": bson.M{
			"assignedTrainer": trainerID,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List retrieves all customer profiles.
func (r *mongoCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}

// EnsureCustomerIndexes creates necessary indexes for the customers collection.
func EnsureCustomerIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "assignedTrainer", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
