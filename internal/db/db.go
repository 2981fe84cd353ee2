package db

import (
	"context"
	"time"

	"devops-bot/internal/cache"
	"devops-bot/internal/config"
	"devops-bot/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DB is the optional chat registry.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Chats    *mongo.Collection

	countCache *cache.Cache[string, int64]
}

const countTTL = time.Minute

func Connect(cfg *config.Config) (*DB, error) {
	clientOpts := options.Client().ApplyURI(cfg.MongoDBURI)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(cfg.DatabaseName)
	d := &DB{
		Client:   client,
		Database: db,
		Chats:    db.Collection("chats"),

		countCache: cache.New[string, int64](),
	}

	if err := d.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return d, nil
}

func (d *DB) createIndexes(ctx context.Context) error {
	_, err := d.Chats.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "last_seen", Value: -1}},
	})
	return err
}

func (d *DB) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// UpsertChat records that the bot has seen chat.
func (d *DB) UpsertChat(ctx context.Context, chat *models.Chat) error {
	opts := options.UpdateOne().SetUpsert(true)
	filter := bson.M{"_id": chat.ID}

	update := bson.M{
		"$set": bson.M{
			"title":     chat.Title,
			"chat_type": chat.ChatType,
			"last_seen": chat.LastSeen,
		},
	}
	_, err := d.Chats.UpdateOne(ctx, filter, update, opts)
	return err
}

// CountChats returns how many chats the bot has been used in. The count is
// refreshed at most once per minute.
func (d *DB) CountChats(ctx context.Context) (int64, error) {
	return d.countCache.GetOrLoad("chats", countTTL, func() (int64, error) {
		return d.Chats.CountDocuments(ctx, bson.D{})
	})
}
