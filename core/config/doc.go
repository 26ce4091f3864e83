// Package config provides configuration management for the comparison service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Log: Logging level and format
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Staging: where uploaded snapshots are kept (local directory or bucket)
//   - Session: where comparison results are cached (memory or database)
//   - Compare: duplicate identity key policy
//
// Environment keys join section and field with an underscore, e.g. SERVER_PORT
// or COMPARE_DUPLICATES.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
