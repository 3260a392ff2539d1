package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/archepal/archepal/internal/flagx"
	"github.com/archepal/archepal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the file can specify intervals either as strings like
// "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	APIKey              string         `json:"api_key"`
	UserID              string         `json:"user_id"`
	DatabasePath        string         `json:"database_path"`
	AttachmentsDir      string         `json:"attachments_dir"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	S3Region            string         `json:"s3_region"`
	S3Bucket            string         `json:"s3_bucket"`
	S3RootUser          string         `json:"s3_root_user"`
	S3RootPassword      string         `json:"s3_root_password"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flags. Absent flags mean no JSON is loaded. Only fields present
// in the file override; empty strings and zero durations are skipped so the
// file can stay partial.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIfNotEmpty(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setIfNotEmpty(&cfg.APIKey, jc.APIKey)
	setIfNotEmpty(&cfg.UserID, jc.UserID)
	setIfNotEmpty(&cfg.DatabasePath, jc.DatabasePath)
	setIfNotEmpty(&cfg.AttachmentsDir, jc.AttachmentsDir)
	setIfNotEmpty(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setIfNotEmpty(&cfg.S3Region, jc.S3Region)
	setIfNotEmpty(&cfg.S3Bucket, jc.S3Bucket)
	setIfNotEmpty(&cfg.S3RootUser, jc.S3RootUser)
	setIfNotEmpty(&cfg.S3RootPassword, jc.S3RootPassword)

	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
