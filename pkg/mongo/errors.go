package mongo

import (
	"errors"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ObjectIDFromHex parses a hex id. Malformed ids report false so callers treat them as unknown.
func ObjectIDFromHex(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// TranslateError maps driver errors onto the shared repository sentinels.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return db.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(db.ErrDuplicate, err)
	}
	return err
}
