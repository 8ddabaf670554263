//go:build integration

package containers

import (
	"context"
	"fmt"

	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContainer wraps a single-node replica set so stores can use
// multi-document transactions.
type MongoContainer struct {
	Container *tcmongo.MongoDBContainer
	Client    *mongo.Client
	DB        *mongo.Database
}

func startMongo(ctx context.Context) (*MongoContainer, error) {
	container, err := tcmongo.Run(ctx, "mongo:7", tcmongo.WithReplicaSet("rs0"))
	if err != nil {
		return nil, err
	}
	uri, err := container.ConnectionString(ctx)
	if err != nil {
		return nil, fmt.Errorf("mongo connection string: %w", err)
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetDirect(true))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoContainer{Container: container, Client: client, DB: client.Database("chatguard_test")}, nil
}

// DropDatabase removes every collection in the test database.
func (m *MongoContainer) DropDatabase(ctx context.Context) error {
	return m.DB.Drop(ctx)
}
