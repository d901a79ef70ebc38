package guestbook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dgraph-io/badger/v4"
	"github.com/putto11262002/guestbook/core"
	"github.com/putto11262002/guestbook/store"
)

// OpenStore opens the message store selected by config.Store.Driver.
// The returned cleanup function releases the underlying connection.
func OpenStore(ctx context.Context, config *Config, logger *slog.Logger) (store.Store, func(context.Context), error) {
	opts := store.Options{
		Table:        config.TableName,
		KeyAttribute: core.AttrMessageID,
		PageSize:     config.Store.PageSize,
	}
	noop := func(context.Context) {}

	switch config.Store.Driver {
	case SQLiteDriver:
		db, err := store.NewSQLiteDB(config.SQLite.File, &store.SQLiteDBOption{
			Mode:        "rwc",
			Cache:       "shared",
			JournalMode: "WAL",
		})
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("migrate sqlite database: %w", err)
		}
		logger.Info("using sqlite store", slog.String("file", config.SQLite.File), slog.String("table", opts.Table))
		return store.NewSQLiteStore(db.DB, opts), func(context.Context) { db.Close() }, nil

	case BadgerDriver:
		badgerOpts := badger.DefaultOptions(config.Badger.Dir)
		if config.Badger.InMemory {
			badgerOpts = badger.DefaultOptions("").WithInMemory(true)
		}
		db, err := badger.Open(badgerOpts.WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, noop, fmt.Errorf("open badger database: %w", err)
		}
		logger.Info("using badger store", slog.String("dir", config.Badger.Dir),
			slog.Bool("in_memory", config.Badger.InMemory), slog.String("table", opts.Table))
		return store.NewBadgerStore(db, opts), func(context.Context) { db.Close() }, nil

	case DynamoDBDriver:
		client, err := NewDynamoDBClient(ctx, config)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using dynamodb store", slog.String("table", opts.Table))
		return store.NewDynamoDBStore(client, opts), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}
}

// NewDynamoDBClient builds a client from the AWS SDK default credential and region chain.
func NewDynamoDBClient(ctx context.Context, config *Config) (*dynamodb.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if config.DynamoDB.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(config.DynamoDB.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if config.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.DynamoDB.Endpoint)
		}
	}), nil
}
