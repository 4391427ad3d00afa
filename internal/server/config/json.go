package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/yatube/internal/flagx"
	"github.com/dmitrijs2005/yatube/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, so both "24h" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC        string         `json:"endpoint_addr_grpc"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	PostsPerPage            int            `json:"posts_per_page"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	LogLevel                string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c / -config. Keys that
// are absent from the file leave the current values alone. An unreadable
// or malformed file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFilePath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionValidityDuration.Duration != 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.PostsPerPage != 0 {
		config.PostsPerPage = c.PostsPerPage
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
