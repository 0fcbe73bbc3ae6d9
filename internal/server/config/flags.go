package config

import (
	"flag"
	"time"

	"github.com/csye-webapp/webapp/internal/flagx"
)

// parseFlags overlays values from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-u string   S3 access key
//	-p string   S3 secret key
//	-n string   SNS topic ARN for verification notifications
//	-m string   statsd address
//	-l string   log file path
//	-t int      verification token validity, minutes
//	-w string   public base URL used in verification links
//	-v bool     require a verified email on authenticated routes
//
// Only these flags are looked at; everything else in args is dropped by
// flagx.FilterArgs first. Parse errors panic.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-b", "-g", "-e", "-u", "-p", "-n", "-m", "-l", "-t", "-w", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.SNSTopicARN, "n", config.SNSTopicARN, "SNS topic ARN")
	fs.StringVar(&config.StatsdAddr, "m", config.StatsdAddr, "statsd address")
	fs.StringVar(&config.LogFile, "l", config.LogFile, "log file")
	ttl := fs.Int("t", int(config.VerificationTokenTTL.Minutes()), "verification token validity (in minutes)")
	fs.StringVar(&config.PublicBaseURL, "w", config.PublicBaseURL, "public base URL")
	fs.BoolVar(&config.RequireVerifiedEmail, "v", config.RequireVerifiedEmail, "require verified email")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.VerificationTokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
}
