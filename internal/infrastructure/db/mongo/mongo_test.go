package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

func TestConfigDatabase(t *testing.T) {
	name, err := Config{URI: "mongodb://localhost:27017/ignored", Database: "campus_portal"}.database()
	require.NoError(t, err)
	assert.Equal(t, "campus_portal", name)

	name, err = Config{URI: "mongodb://localhost:27017/from_uri?retryWrites=true"}.database()
	require.NoError(t, err)
	assert.Equal(t, "from_uri", name)

	_, err = Config{URI: "mongodb://localhost:27017"}.database()
	assert.ErrorContains(t, err, "no database")

	_, err = Config{URI: "not-a-uri"}.database()
	assert.ErrorContains(t, err, "mongo uri")
}

func TestConnect_Unreachable(t *testing.T) {
	_, _, err := Connect(context.Background(), Config{
		URI:      "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200",
		Database: "campus_portal",
		Timeout:  time.Second,
	})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
