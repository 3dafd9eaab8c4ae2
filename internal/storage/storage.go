// Package storage opens the configured backing store and hands out its repositories.
package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"blog-api/internal/config"
	"blog-api/internal/repository"
	"blog-api/internal/repository/mongodb"
	"blog-api/internal/repository/sqlite"
)

type Options struct {
	Driver        string
	Path          string
	MongoURI      string
	MongoDatabase string
}

// OptionsFromConfig maps the database section of cfg.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Driver:        cfg.Database.Driver,
		Path:          cfg.Database.Path,
		MongoURI:      cfg.Database.MongoURI,
		MongoDatabase: cfg.Database.MongoDatabase,
	}
}

// Store bundles the repositories of one backend with its connection.
type Store struct {
	Users repository.UserRepository
	Posts repository.PostRepository

	close func(context.Context) error
}

// Open connects to the backend named by opts.Driver and initialises the
// schema or indexes of every repository.
func Open(ctx context.Context, opts Options, logger *logrus.Logger) (*Store, error) {
	var store *Store
	switch opts.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", opts.Path, err)
		}
		store = &Store{
			Users: sqlite.NewUserRepository(db),
			Posts: sqlite.NewPostRepository(db),
			close: func(context.Context) error { return db.Close() },
		}
		logger.Infof("using sqlite database %s", opts.Path)
	case config.DriverMongo:
		db, disconnect, err := mongodb.Connect(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}
		store = &Store{
			Users: mongodb.NewUserRepository(db),
			Posts: mongodb.NewPostRepository(db),
			close: disconnect,
		}
		logger.Infof("connected to mongodb database %s", opts.MongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	if err := store.Users.Init(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("init user repository: %w", err)
	}
	if err := store.Posts.Init(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("init post repository: %w", err)
	}
	return store, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}
