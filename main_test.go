package main

import (
	"context"
	"testing"
	"time"

	"github.com/huyteo/Server-danentang-GK/internal/config"
	"github.com/huyteo/Server-danentang-GK/internal/product/repository"
	"github.com/stretchr/testify/require"
)

func TestOpenProductStoreEmptyURIUsesMemory(t *testing.T) {
	repo, client, err := openProductStore(context.Background(), &config.Config{})
	require.NoError(t, err)
	require.Nil(t, client)
	require.IsType(t, &repository.MemoryRepo{}, repo)
}

func TestOpenProductStoreUnreachableMongoIsAnError(t *testing.T) {
	cfg := &config.Config{MongoDB: config.MongoDBConfig{
		URI:             "not-a-mongo-uri",
		Database:        "catalog_test",
		Collection:      "products",
		Timeout:         time.Second,
		ConnectAttempts: 1,
	}}
	repo, client, err := openProductStore(context.Background(), cfg)
	require.Error(t, err)
	require.Nil(t, repo, "a configured store that is down must not be replaced by memory")
	require.Nil(t, client)
}
