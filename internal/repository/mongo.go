package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Additional-Code/purchasehub/internal/database"
)

// MongoRepository stores documents in a MongoDB collection keyed by ObjectID.
type MongoRepository[T any, P Document[T]] struct {
	coll *mongo.Collection
	desc Descriptor
}

// NewMongoRepository wires a repository backed by the configured mongo database.
func NewMongoRepository[T any, P Document[T]](conns *database.Connections, desc Descriptor) *MongoRepository[T, P] {
	return &MongoRepository[T, P]{
		coll: conns.Mongo.Collection(desc.Collection),
		desc: desc,
	}
}

// EnsureIndexes creates the unique indexes declared by the entity.
func (r *MongoRepository[T, P]) EnsureIndexes(ctx context.Context) error {
	keys := P(new(T)).UniqueKeys()
	if len(keys) == 0 {
		return nil
	}
	fields := make([]string, 0, len(keys))
	for field := range keys {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	models := make([]mongo.IndexModel, 0, len(fields))
	for _, field := range fields {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(field + "_unique"),
		})
	}
	_, err := r.coll.Indexes().CreateMany(ctx, models)
	return err
}

func (r *MongoRepository[T, P]) List(ctx context.Context) (docs []*T, err error) {
	ctx, span := startSpan(ctx, r.desc, "mongodb", "List")
	defer func() { finishSpan(span, err) }()

	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	docs = make([]*T, 0)
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetByID fails with a cast error, not ErrNotFound, when id is not a valid ObjectID.
func (r *MongoRepository[T, P]) GetByID(ctx context.Context, id string) (doc *T, err error) {
	ctx, span := startSpan(ctx, r.desc, "mongodb", "GetByID", attribute.String("document.id", id))
	defer func() { finishSpan(span, err) }()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository[T, P]) FindByName(ctx context.Context, name string) (doc *T, err error) {
	ctx, span := startSpan(ctx, r.desc, "mongodb", "FindByName", attribute.String("document.name", name))
	defer func() { finishSpan(span, err) }()

	return r.findOne(ctx, bson.M{r.desc.NameField: name})
}

func (r *MongoRepository[T, P]) Create(ctx context.Context, doc *T) (err error) {
	if doc == nil {
		return errors.New("nil document")
	}
	oid := primitive.NewObjectID()
	P(doc).SetDocumentID(oid.Hex())

	ctx, span := startSpan(ctx, r.desc, "mongodb", "Create", attribute.String("document.id", oid.Hex()))
	defer func() { finishSpan(span, err) }()

	body, err := toBSON(doc, oid)
	if err != nil {
		return err
	}
	if _, err = r.coll.InsertOne(ctx, body); err != nil {
		return translate(err)
	}
	return nil
}

func (r *MongoRepository[T, P]) Update(ctx context.Context, doc *T) (err error) {
	if doc == nil {
		return errors.New("nil document")
	}
	id := P(doc).DocumentID()
	ctx, span := startSpan(ctx, r.desc, "mongodb", "Update", attribute.String("document.id", id))
	defer func() { finishSpan(span, err) }()

	oid, err := objectID(id)
	if err != nil {
		return err
	}
	body, err := toBSON(doc, oid)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, body)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T, P]) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, r.desc, "mongodb", "Delete", attribute.String("document.id", id))
	defer func() { finishSpan(span, err) }()

	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T, P]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	doc := new(T)
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	err := r.coll.FindOne(ctx, filter, opts).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: cast to ObjectId failed for value %q: %v", ErrInvalidID, id, err)
	}
	return oid, nil
}

// toBSON flattens doc and stores its identifier as a native ObjectID.
func toBSON(doc any, oid primitive.ObjectID) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var body bson.M
	if err := bson.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	body["_id"] = oid
	return body, nil
}
