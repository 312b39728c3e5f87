package carts

import (
	"context"
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgmongo "github.com/angelmondragon/shopfront-backend/pkg/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type cartLineDocument struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
}

type cartDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Products  []cartLineDocument `bson:"products"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d cartDocument) toModel() *models.Cart {
	lines := make([]models.CartLine, 0, len(d.Products))
	for _, line := range d.Products {
		lines = append(lines, models.CartLine{ProductID: line.Product.Hex(), Quantity: line.Quantity})
	}
	return &models.Cart{
		ID:        d.ID.Hex(),
		Products:  lines,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoRepository stores carts in the carts collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a repository on the shared mongo client.
func NewMongoRepository(client *pkgmongo.Client) *MongoRepository {
	return &MongoRepository{coll: client.Collection(pkgmongo.CartsCollection)}
}

func (r *MongoRepository) Create(ctx context.Context) (*models.Cart, error) {
	now := time.Now().UTC()
	doc := cartDocument{
		ID:        primitive.NewObjectID(),
		Products:  []cartLineDocument{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Cart, error) {
	oid, ok := pkgmongo.ObjectIDFromHex(id)
	if !ok {
		return nil, db.ErrNotFound
	}
	var doc cartDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, ok := pkgmongo.ObjectIDFromHex(id)
	if !ok {
		return db.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return pkgmongo.TranslateError(err)
	}
	if res.DeletedCount == 0 {
		return db.ErrNotFound
	}
	return nil
}
