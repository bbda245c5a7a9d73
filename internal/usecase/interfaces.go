package usecase

import (
	"context"
	"time"

	"github.com/iho/sochitieu/internal/domain"
)

// TransactionRepository defines data access for the transaction ledger.
type TransactionRepository interface {
	// FetchAll returns every record ordered by date descending, ties broken
	// by id descending. An empty ledger yields an empty slice, not an error.
	FetchAll(ctx context.Context) ([]domain.Transaction, error)
	// Insert assigns a fresh id, stamps createdAt/updatedAt and persists.
	Insert(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error)
	// GetByID returns domain.ErrTransactionNotFound when the id is absent.
	GetByID(ctx context.Context, id int64) (domain.Transaction, error)
	// Update shallow-merges the patch onto the stored record and refreshes
	// updatedAt. Returns domain.ErrTransactionNotFound when the id is absent.
	Update(ctx context.Context, id int64, patch domain.TransactionPatch) (domain.Transaction, error)
	// Delete removes the record if present; deleting a missing id is a no-op.
	Delete(ctx context.Context, id int64) error
	// ClearAll irreversibly removes every record.
	ClearAll(ctx context.Context) error
}

// CategoryRepository defines data access for user-defined categories.
type CategoryRepository interface {
	ListCustom(ctx context.Context) ([]domain.CategoryMeta, error)
	InsertCustom(ctx context.Context, category domain.CategoryMeta) error
	DeleteCustom(ctx context.Context, id string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// BackupCodec is the reversible transform applied to backup file content.
type BackupCodec interface {
	Encode(plaintext string) string
	Decode(ciphertext string) (string, error)
}

// BackupFile describes a discovered backup file.
type BackupFile struct {
	Path       string
	ExportedAt time.Time
}

// BackupFileStore persists and discovers backup files.
type BackupFileStore interface {
	WriteBackup(content string, at time.Time) (string, error)
	Read(path string) (string, error)
	// List returns known backups, newest first.
	List() ([]BackupFile, error)
}

// ReportWriter produces the one-way CSV exports.
type ReportWriter interface {
	WriteReport(transactions []domain.Transaction, catalog []domain.CategoryMeta, at time.Time) (string, error)
	WriteSummary(transactions []domain.Transaction, catalog []domain.CategoryMeta, at time.Time) (string, error)
}
