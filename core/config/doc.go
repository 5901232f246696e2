// Package config provides configuration management for openapi-sync.
//
// Values come from environment variables, optionally seeded from a .env file.
// Defaults live next to each field in a 'default' struct tag and are bound to
// Viper by reflection, so every key can be overridden by its upper-cased,
// underscore-joined environment name (sync.guard_window_ms -> SYNC_GUARD_WINDOW_MS).
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Database: MySQL connection for the decision table
//   - Storage: S3/MinIO credentials and bucket for decisions and plan archives
//   - Log: logging level and format
//   - Sync: staleness window, difference source, applier and persistence backend
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.GuardWindow())
package config
