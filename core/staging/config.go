package staging

// Config holds configuration for the staging area.
type Config struct {
	// Backend selects where uploads are kept (local, s3).
	Backend string `mapstructure:"backend" default:"local"`
	// Dir is the staging directory for the local backend.
	Dir string `mapstructure:"dir" default:"uploaded_files"`
	// Prefix is the object key prefix for the s3 backend.
	Prefix string `mapstructure:"prefix" default:"uploaded_files/"`
}

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)
