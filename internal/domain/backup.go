package domain

import "time"

// BackupVersion is the document version the current pipeline writes and the
// oldest it accepts.
const BackupVersion = "1.0"

// BackupDocument is the transient snapshot that travels through the
// export/import pipeline. It is constructed in memory at export time and
// discarded after its contents are merged into the live store; it is never
// a second source of truth.
type BackupDocument struct {
	Version          string         `json:"version"`
	ExportDate       time.Time      `json:"exportDate"`
	Transactions     []Transaction  `json:"transactions"`
	CustomCategories []CategoryMeta `json:"customCategories,omitempty"`
}

// Validate checks that the document carries a recognized version tag and a
// transactions collection. A failure here means "wrong file", distinct from
// the decode failure that means "corrupted file".
func (d BackupDocument) Validate() error {
	if d.Version == "" || d.Transactions == nil {
		return ErrUnrecognizedBackup
	}
	return nil
}
