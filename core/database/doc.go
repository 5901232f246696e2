// Package database handles the MySQL connection used for decision persistence.
//
// It wraps GORM so connection setup, pool limits and timeouts are configured
// in one place, and provides a small schema inspector used by the integrity
// feature to verify the decision table.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Database unavailable", zap.Error(err))
//	}
//	_ = database.Migrate(db, &store.DecisionRecord{})
//
//	columns, err := database.GetTableColumns(db, "sync_decisions")
package database
