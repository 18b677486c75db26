package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/custodia/internal/blobstore"
	"github.com/custodia-labs/custodia/internal/database"
	"github.com/custodia-labs/custodia/internal/docstore"
)

// DB returns the SQL connection backing the document store. Only valid when the
// document store driver is postgres, mysql or sqlite.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// DocStore returns the document store selected by DOCSTORE_DRIVER, bounded by the
// upstream timeout.
func (c *Container) DocStore() (docstore.Store, error) {
	var err error
	c.docStoreInit.Do(func() {
		c.docStore, err = c.initDocStore()
		if err != nil {
			c.initErrors["docStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["docStore"]; exists {
		return nil, storedErr
	}
	return c.docStore, nil
}

// BlobStore returns the blob store selected by BLOBSTORE_DRIVER, bounded by the
// upstream timeout.
func (c *Container) BlobStore() (blobstore.Store, error) {
	var err error
	c.blobStoreInit.Do(func() {
		c.blobStore, err = c.initBlobStore()
		if err != nil {
			c.initErrors["blobStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobStore"]; exists {
		return nil, storedErr
	}
	return c.blobStore, nil
}

// initDB opens the SQL connection for the document store.
func (c *Container) initDB() (*sql.DB, error) {
	if !c.config.IsSQLDocStore() {
		return nil, fmt.Errorf("document store driver %q is not a SQL driver", c.config.DocStoreDriver)
	}
	db, err := database.Connect(database.Config{
		Driver:             c.config.DocStoreDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initDocStore creates the configured document store.
func (c *Container) initDocStore() (docstore.Store, error) {
	var store docstore.Store

	switch c.config.DocStoreDriver {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), c.config.UpstreamTimeout)
		defer cancel()

		mongoStore, err := docstore.NewMongoStore(
			ctx,
			c.config.MongoURI,
			c.config.MongoDatabase,
			c.config.MongoCollection,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		c.mongoStore = mongoStore
		store = mongoStore
	case "postgres", "mysql", "sqlite":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for document store: %w", err)
		}
		sqlStore, err := docstore.NewSQLStore(db, c.config.DocStoreDriver)
		if err != nil {
			return nil, err
		}
		store = sqlStore
	case "memory":
		store = docstore.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported document store driver: %s", c.config.DocStoreDriver)
	}

	return docstore.WithTimeout(store, c.config.UpstreamTimeout), nil
}

// initBlobStore creates the configured blob store.
func (c *Container) initBlobStore() (blobstore.Store, error) {
	var store blobstore.Store

	switch c.config.BlobStoreDriver {
	case "walrus":
		store = blobstore.NewWalrusStore(blobstore.WalrusConfig{
			PublisherURL:  c.config.WalrusPublisherURL,
			AggregatorURL: c.config.WalrusAggregatorURL,
			Epochs:        c.config.WalrusEpochs,
			MaxRetries:    c.config.WalrusMaxRetries,
		}, c.Logger())
	case "bucket":
		bucket, err := blobstore.OpenBucketStore(context.Background(), c.config.BlobBucketURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open blob bucket: %w", err)
		}
		c.bucket = bucket
		store = bucket
	default:
		return nil, fmt.Errorf("unsupported blob store driver: %s", c.config.BlobStoreDriver)
	}

	return blobstore.WithTimeout(store, c.config.UpstreamTimeout), nil
}
