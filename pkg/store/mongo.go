package store

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

const (
	mongoCollection = "datasets"
	mongoDocID      = "dataset"
)

// MongoBackend persists the dataset as a single document. The dataset body
// is stored as canonical JSON so the wire format matches the file backend
// exactly.
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored document shape.
type mongoDoc struct {
	ID   string `bson:"_id"`
	Body []byte `bson:"body"`
}

// NewMongoBackend connects to MongoDB and verifies the connection.
func NewMongoBackend(ctx context.Context, uri, database string) (*MongoBackend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, backendErr("mongo", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, backendErr("mongo", err)
	}
	return &MongoBackend{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

func (m *MongoBackend) Load(ctx context.Context) (*kin.Dataset, error) {
	var doc mongoDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": mongoDocID}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, backendErr("mongo", err)
	}
	var ds kin.Dataset
	if err := json.Unmarshal(doc.Body, &ds); err != nil {
		return nil, backendErr("mongo", err)
	}
	return &ds, nil
}

func (m *MongoBackend) Save(ctx context.Context, ds *kin.Dataset) error {
	body, err := json.Marshal(ds)
	if err != nil {
		return backendErr("mongo", err)
	}
	_, err = m.coll.ReplaceOne(ctx,
		bson.M{"_id": mongoDocID},
		mongoDoc{ID: mongoDocID, Body: body},
		options.Replace().SetUpsert(true))
	if err != nil {
		return backendErr("mongo", err)
	}
	return nil
}

func (m *MongoBackend) Close() error {
	return m.client.Disconnect(context.Background())
}

func (m *MongoBackend) Name() string { return "mongo" }
