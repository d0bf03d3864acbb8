package storage_test

import (
	"testing"

	"document-manager/core/apperror"
	"document-manager/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Driver:    storage.DriverMinio,
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "localhost:9000", client.EndpointURL().Host)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Driver:    storage.DriverMinio,
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https", client.EndpointURL().Scheme)
	})

	t.Run("S3Driver", func(t *testing.T) {
		cfg := storage.Config{
			Driver:    storage.DriverS3,
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "eu-west-1",
		}

		client, err := storage.NewClient(cfg)
		require.NoError(t, err)
		assert.Equal(t, "s3.eu-west-1.amazonaws.com", client.EndpointURL().Host)
	})

	t.Run("S3CustomEndpoint", func(t *testing.T) {
		cfg := storage.Config{
			Driver:    storage.DriverS3,
			Endpoint:  "http://localhost:4566",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:4566", client.EndpointURL().String())
	})

	t.Run("MemoryDriverNeedsNoCredentials", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{Driver: storage.DriverMemory})
		require.NoError(t, err)
		assert.IsType(t, &storage.MemoryClient{}, client)
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		for _, driver := range []string{storage.DriverMinio, storage.DriverS3} {
			client, err := storage.NewClient(storage.Config{Driver: driver, Endpoint: "localhost:9000", Region: "us-east-1"})
			assert.Nil(t, client)
			assert.ErrorIs(t, err, apperror.ErrConfiguration, driver)
			assert.Contains(t, err.Error(), "storage.access_key")
		}
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		_, err := storage.NewClient(storage.Config{Driver: "ftp"})
		assert.ErrorIs(t, err, apperror.ErrConfiguration)
	})

	t.Run("CredentialsFromConnectionString", func(t *testing.T) {
		cfg := storage.Config{
			Driver:           storage.DriverMinio,
			Endpoint:         "localhost:9000",
			ConnectionString: "DefaultEndpointsProtocol=http;AccountName=devstore;AccountKey=c2VjcmV0;Endpoint=minio.internal:9000",
		}

		client, err := storage.NewClient(cfg)
		require.NoError(t, err)
		assert.Equal(t, "minio.internal:9000", client.EndpointURL().Host)
	})
}

func TestParseConnectionString(t *testing.T) {
	t.Run("AzureStyle", func(t *testing.T) {
		cs, err := storage.ParseConnectionString("DefaultEndpointsProtocol=https;AccountName=acct;AccountKey=a2V5==;BlobEndpoint=https://acct.blob.example.net")
		require.NoError(t, err)
		assert.Equal(t, "https", cs.Protocol)
		assert.Equal(t, "acct", cs.AccountName)
		assert.Equal(t, "a2V5==", cs.AccountKey)
		assert.Equal(t, "https://acct.blob.example.net", cs.Endpoint)
	})

	t.Run("MalformedSegment", func(t *testing.T) {
		_, err := storage.ParseConnectionString("AccountName=acct;garbage")
		assert.ErrorIs(t, err, apperror.ErrConfiguration)
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, err := storage.ParseConnectionString("AccountName=acct")
		assert.ErrorIs(t, err, apperror.ErrConfiguration)
	})
}
