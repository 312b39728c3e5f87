package users

import (
	"context"
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgmongo "github.com/angelmondragon/shopfront-backend/pkg/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	FirstName string              `bson:"first_name"`
	LastName  string              `bson:"last_name"`
	Email     string              `bson:"email"`
	Age       int                 `bson:"age"`
	Password  string              `bson:"password"`
	Role      string              `bson:"role"`
	Cart      *primitive.ObjectID `bson:"cart,omitempty"`
	CreatedAt time.Time           `bson:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at"`
}

func (d userDocument) toModel() *models.User {
	user := &models.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		Age:          d.Age,
		Role:         enums.UserRole(d.Role),
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Cart != nil {
		cartID := d.Cart.Hex()
		user.CartID = &cartID
	}
	return user
}

// MongoRepository stores users in the users collection. The cart reference is
// kept as an ObjectID so it joins against the carts collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a repository on the shared mongo client.
func NewMongoRepository(client *pkgmongo.Client) *MongoRepository {
	return &MongoRepository{coll: client.Collection(pkgmongo.UsersCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	now := time.Now().UTC()

	doc := userDocument{
		ID:        primitive.NewObjectID(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Age:       user.Age,
		Password:  user.PasswordHash,
		Role:      user.Role.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.CartID != nil {
		oid, ok := pkgmongo.ObjectIDFromHex(*user.CartID)
		if !ok {
			return nil, db.ErrNotFound
		}
		doc.Cart = &oid
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, ok := pkgmongo.ObjectIDFromHex(id)
	if !ok {
		return nil, db.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	return doc.toModel(), nil
}
