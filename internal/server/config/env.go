package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// parseEnv overlays values from the environment. A .env file in the working
// directory is loaded first if present; variables already set win over it.
// Malformed numeric or boolean values are ignored.
func parseEnv(config *Config, lookup lookupFunc) {
	_ = godotenv.Load()

	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		config.EndpointAddr = ":" + port
	}
	str(&config.EndpointAddr, "ENDPOINT_ADDR")
	str(&config.DatabaseDSN, "DATABASE_DSN", "DATABASE_URL")
	str(&config.S3Bucket, "S3_BUCKET_NAME")
	str(&config.S3Region, "AWS_REGION")
	str(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	str(&config.S3AccessKey, "AWS_ACCESS_KEY_ID")
	str(&config.S3SecretKey, "AWS_SECRET_ACCESS_KEY")
	str(&config.SNSTopicARN, "SNS_TOPIC_ARN")
	str(&config.StatsdAddr, "STATSD_ADDR")
	str(&config.LogFile, "LOG_FILE")
	str(&config.PublicBaseURL, "PUBLIC_BASE_URL")

	if v, ok := lookup("VERIFICATION_TOKEN_TTL"); ok {
		if d, ok := parseTTL(v); ok {
			config.VerificationTokenTTL = d
		}
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.ShutdownTimeout = d
		}
	}
	if v, ok := lookup("REQUIRE_VERIFIED_EMAIL"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.RequireVerifiedEmail = b
		}
	}
}

// parseTTL reads a bare integer as minutes, like the -t flag, and anything
// else as a Go duration ("90s", "1h").
func parseTTL(v string) (time.Duration, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute, true
	}
	d, err := time.ParseDuration(v)
	return d, err == nil
}
