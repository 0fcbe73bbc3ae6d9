package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"endpoint_addr":          "0.0.0.0:9000",
		"database_dsn":           "postgres://json",
		"s3_bucket":              "bucket",
		"s3_region":              "region",
		"s3_base_endpoint":       "base_endpoint",
		"s3_access_key":          "ak",
		"s3_secret_key":          "sk",
		"sns_topic_arn":          "arn",
		"statsd_addr":            "statsd:1",
		"log_file":               "/tmp/x.log",
		"verification_token_ttl": "3m",
		"public_base_url":        "https://json.example",
		"require_verified_email": true,
		"shutdown_timeout":       int64(2 * time.Second),
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, []string{"-config", full})

		assert.Equal(t, "0.0.0.0:9000", cfg.EndpointAddr)
		assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "ak", cfg.S3AccessKey)
		assert.Equal(t, "sk", cfg.S3SecretKey)
		assert.Equal(t, "arn", cfg.SNSTopicARN)
		assert.Equal(t, "statsd:1", cfg.StatsdAddr)
		assert.Equal(t, "/tmp/x.log", cfg.LogFile)
		assert.Equal(t, 3*time.Minute, cfg.VerificationTokenTTL)
		assert.Equal(t, "https://json.example", cfg.PublicBaseURL)
		assert.True(t, cfg.RequireVerifiedEmail)
		assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"s3_bucket": "only-bucket"})
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", partial})

		assert.Equal(t, "only-bucket", cfg.S3Bucket)
		assert.Equal(t, ":8080", cfg.EndpointAddr)
		assert.Equal(t, 2*time.Minute, cfg.VerificationTokenTTL)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddr: "defaults:1234", S3Bucket: "s3bucket"}
		parseJson(cfg, []string{"-a", ":1"})

		assert.Equal(t, "defaults:1234", cfg.EndpointAddr)
		assert.Equal(t, "s3bucket", cfg.S3Bucket)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-config", bad}) })
	})

	t.Run("invalid duration → panics", func(t *testing.T) {
		bad := writeTempJSON(t, dir, "dur.json", map[string]any{"verification_token_ttl": "later"})
		require.Panics(t, func() { parseJson(&Config{}, []string{"-config", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-config", filepath.Join(dir, "nope.json")}) })
	})
}
