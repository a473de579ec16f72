package model

// VersionInfo describes the running build and the state of its database schema.
type VersionInfo struct {
	AppVersion string `json:"app_version"`
	// DbVersion is the goose version applied to the database.
	DbVersion string `json:"db_version"`
	// LatestDbVersion is the highest migration embedded in this build.
	LatestDbVersion string          `json:"latest_db_version"`
	Features        map[string]bool `json:"features"`
	// MigrationNeeded is set when DbVersion is behind LatestDbVersion; MigrationMessage then
	// explains the gap.
	MigrationNeeded  bool    `json:"migration_needed"`
	MigrationMessage *string `json:"migration_message,omitempty"`
}
