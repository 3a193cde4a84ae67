package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

const (
	connectTimeout         = 10 * time.Second
	serverSelectionTimeout = 5 * time.Second
	appName                = "auth-portal"
)

// Config points at the deployment holding users, students and companies.
// Database falls back to the database named in the URI path.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func (c Config) database() (string, error) {
	if c.Database != "" {
		return c.Database, nil
	}
	cs, err := connstring.ParseAndValidate(c.URI)
	if err != nil {
		return "", fmt.Errorf("mongo uri: %w", err)
	}
	if cs.Database == "" {
		return "", fmt.Errorf("mongo uri: no database given")
	}
	return cs.Database, nil
}

// Connect dials the deployment and pings it. Server selection stays bounded
// afterwards too, so calls against a lost deployment fail instead of hanging.
// Dial and ping failures wrap domain.ErrBackendUnavailable.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	name, err := cfg.database()
	if err != nil {
		return nil, nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(serverSelectionTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: %w: %v", domain.ErrBackendUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo: %w: %v", domain.ErrBackendUnavailable, err)
	}
	return client, client.Database(name), nil
}
