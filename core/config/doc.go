// Package config provides configuration management for the data loader.
//
// It utilizes Viper for loading configuration from an optional config file
// (config.yaml, config.toml, ...), a .env file and environment variables.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (host, port, API key, metrics)
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Database: snapshot database (sqlite or MySQL)
//   - Build: source and destination of a build
//   - Data: data loader options (path, exclude, allowjs)
//
// Every field declares its default with a `default` struct tag. Environment
// variables map to nested keys by replacing dots with underscores, so
// DATA_PATH sets data.path.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Data.Path)
package config
