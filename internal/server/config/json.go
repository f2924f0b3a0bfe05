package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/vyacheslafka/cloudstorage-server/internal/flagx"
	"github.com/vyacheslafka/cloudstorage-server/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	StorageBackend              string         `json:"storage_backend"`
	StorageRoot                 string         `json:"storage_root"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.StorageBackend = c.StorageBackend
	config.StorageRoot = c.StorageRoot
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
