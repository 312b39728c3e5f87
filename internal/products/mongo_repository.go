package products

import (
	"context"
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgmongo "github.com/angelmondragon/shopfront-backend/pkg/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Code        string             `bson:"code"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	Category    string             `bson:"category"`
	Thumbnails  []string           `bson:"thumbnails"`
	Status      bool               `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d productDocument) toModel() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Code:        d.Code,
		Price:       d.Price,
		Stock:       d.Stock,
		Category:    d.Category,
		Thumbnails:  d.Thumbnails,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func documentFromModel(p *models.Product) productDocument {
	thumbnails := p.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}
	return productDocument{
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Thumbnails:  thumbnails,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// MongoRepository stores products in the products collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a repository on the shared mongo client.
func NewMongoRepository(client *pkgmongo.Client) *MongoRepository {
	return &MongoRepository{coll: client.Collection(pkgmongo.ProductsCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt, product.UpdatedAt = now, now

	doc := documentFromModel(product)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return pkgmongo.TranslateError(err)
	}
	product.ID = doc.ID.Hex()
	product.Thumbnails = doc.Thumbnails
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, ok := pkgmongo.ObjectIDFromHex(id)
	if !ok {
		return nil, db.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	var doc productDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	product := doc.toModel()
	return &product, nil
}

func (r *MongoRepository) Update(ctx context.Context, product *models.Product) error {
	oid, ok := pkgmongo.ObjectIDFromHex(product.ID)
	if !ok {
		return db.ErrNotFound
	}
	product.UpdatedAt = time.Now().UTC()

	doc := documentFromModel(product)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return pkgmongo.TranslateError(err)
	}
	if res.MatchedCount == 0 {
		return db.ErrNotFound
	}
	return nil
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

func (r *MongoRepository) List(ctx context.Context, query ListQuery) ([]models.Product, int64, error) {
	filter := bson.M{}
	if query.Category != "" {
		filter["category"] = query.Category
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(int64(query.Skip)).
		SetLimit(int64(query.Limit))
	if dir := query.Sort.Direction(); dir != 0 {
		opts.SetSort(bson.D{{Key: "price", Value: dir}, {Key: "_id", Value: 1}})
	}

	rows, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *MongoRepository) ListAll(ctx context.Context, limit int) ([]models.Product, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	rows := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, doc.toModel())
	}
	return rows, nil
}
