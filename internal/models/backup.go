package models

import "time"

// BackupSnapshot is a full JSON export of the ledger's durable state
type BackupSnapshot struct {
	Version   string     `json:"version"`
	Timestamp time.Time  `json:"timestamp"`
	Data      BackupData `json:"data"`
}

type BackupData struct {
	Products  []*Product  `json:"products"`
	Customers []*Customer `json:"customers"`
	Rentals   []*Rental   `json:"rentals"`
}

// ImportRequest represents the request body for restoring a snapshot
type ImportRequest struct {
	Data          *BackupData `json:"data"`
	ClearExisting bool        `json:"clear_existing"`
}

// ImportCounters tallies the outcome per collection during restore
type ImportCounters struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// ImportResult reports the outcome of a snapshot restore
type ImportResult struct {
	Products  ImportCounters `json:"products"`
	Customers ImportCounters `json:"customers"`
	Rentals   ImportCounters `json:"rentals"`
}

// RemoteBackup describes one snapshot stored in object storage
type RemoteBackup struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}
