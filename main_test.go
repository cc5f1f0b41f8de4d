package main

import (
	"context"
	"testing"

	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAvatarStorage_LocalDisk(t *testing.T) {
	defer services.SetS3Service(nil)

	cfg := &config.Config{UploadDir: t.TempDir()}
	require.NoError(t, initAvatarStorage(context.Background(), cfg))

	store, ok := services.GetS3Service().(*services.LocalObjectStore)
	require.True(t, ok, "expected the local disk store when no bucket is set")
	assert.Equal(t, cfg.UploadDir, store.Dir())
	assert.Equal(t, services.AvatarRoute+"/u/1.png", store.PublicURL("u/1.png"))
}

func TestInitAvatarStorage_S3(t *testing.T) {
	defer services.SetS3Service(nil)

	cfg := &config.Config{
		AWSRegion:          "ap-south-1",
		AWSS3Bucket:        "honey-homes-avatars",
		AWSAccessKeyID:     "test-key",
		AWSSecretAccessKey: "test-secret",
	}
	require.NoError(t, initAvatarStorage(context.Background(), cfg))

	store, ok := services.GetS3Service().(*services.S3Service)
	require.True(t, ok, "expected the S3 store when a bucket is set")
	assert.Equal(t, "https://honey-homes-avatars.s3.ap-south-1.amazonaws.com/u/1.png", store.PublicURL("u/1.png"))
}
