package domain

import "time"

const (
	BackupVersion = "1.0"
	BackupType    = "journal-entries"
)

// JournalBackup is a full snapshot of the journal entry collection.
type JournalBackup struct {
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Type      string         `json:"type"`
	Data      []JournalEntry `json:"data"`
}
