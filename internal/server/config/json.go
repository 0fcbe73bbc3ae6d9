package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/csye-webapp/webapp/internal/flagx"
)

// Duration accepts either a Go duration string ("2m") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig mirrors Config for JSON decoding. Pointer fields distinguish
// "absent" from the zero value so a partial file only overrides what it names.
type JsonConfig struct {
	EndpointAddr         *string   `json:"endpoint_addr"`
	DatabaseDSN          *string   `json:"database_dsn"`
	S3Bucket             *string   `json:"s3_bucket"`
	S3Region             *string   `json:"s3_region"`
	S3BaseEndpoint       *string   `json:"s3_base_endpoint"`
	S3AccessKey          *string   `json:"s3_access_key"`
	S3SecretKey          *string   `json:"s3_secret_key"`
	SNSTopicARN          *string   `json:"sns_topic_arn"`
	StatsdAddr           *string   `json:"statsd_addr"`
	LogFile              *string   `json:"log_file"`
	VerificationTokenTTL *Duration `json:"verification_token_ttl"`
	PublicBaseURL        *string   `json:"public_base_url"`
	RequireVerifiedEmail *bool     `json:"require_verified_email"`
	ShutdownTimeout      *Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the JSON file given with -c/-config.
// Nothing happens when no file is named. An unreadable or malformed file
// panics: the server must not start on a half-read configuration.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.SNSTopicARN, c.SNSTopicARN)
	setString(&config.StatsdAddr, c.StatsdAddr)
	setString(&config.LogFile, c.LogFile)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	if c.VerificationTokenTTL != nil {
		config.VerificationTokenTTL = c.VerificationTokenTTL.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.RequireVerifiedEmail != nil {
		config.RequireVerifiedEmail = *c.RequireVerifiedEmail
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
