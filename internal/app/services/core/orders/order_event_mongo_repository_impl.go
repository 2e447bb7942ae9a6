package orders

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderEventMongoRepository struct {
	Collection *mongo.Collection
}

func NewOrderEventMongoRepository(db *mongo.Client, dbName string) contracts.OrderEventRepository {
	return &orderEventMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionOrderEvents),
	}
}

func (repo *orderEventMongoRepository) InsertMany(ctx context.Context, events []models.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}
	documents := make([]interface{}, 0, len(events))
	for _, event := range events {
		documents = append(documents, event)
	}
	_, err := repo.Collection.InsertMany(ctx, documents)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *orderEventMongoRepository) FindByOrderIDs(ctx context.Context, orderIDs []string) ([]models.OrderEvent, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "occurredAt", Value: 1}})
	cursor, err := repo.Collection.Find(ctx, bson.M{"orderId": bson.M{"$in": orderIDs}}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	var events []models.OrderEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return events, nil
}
