package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/sochitieu/internal/domain"
)

// ExportResult reports a completed backup export.
type ExportResult struct {
	Path  string
	Count int
}

// MergeResult reports the outcome of a confirmed import merge. Imported
// counts only records actually committed; per-record insert failures are
// collected in Errors and do not roll back earlier inserts.
type MergeResult struct {
	Total              int
	Imported           int
	Skipped            int
	CategoriesImported int
	Errors             []error
}

// BackupUseCase drives the export/import pipeline. Import never mutates the
// ledger by itself: it returns the parsed document and the caller decides
// whether to Merge it.
type BackupUseCase struct {
	ledger     *LedgerUseCase
	categories *CategoryUseCase
	codec      BackupCodec
	files      BackupFileStore
	reports    ReportWriter
	log        zerolog.Logger
}

// NewBackupUseCase creates a BackupUseCase.
func NewBackupUseCase(
	ledger *LedgerUseCase,
	categories *CategoryUseCase,
	codec BackupCodec,
	files BackupFileStore,
	reports ReportWriter,
	log zerolog.Logger,
) *BackupUseCase {
	return &BackupUseCase{
		ledger:     ledger,
		categories: categories,
		codec:      codec,
		files:      files,
		reports:    reports,
		log:        log.With().Str("component", "backup").Logger(),
	}
}

// Export snapshots the current transactions and custom categories into a
// versioned document, encodes it and writes it to a timestamp-qualified file.
func (uc *BackupUseCase) Export(ctx context.Context) (ExportResult, error) {
	custom, err := uc.categories.Custom(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("snapshot custom categories: %w", err)
	}

	doc := domain.BackupDocument{
		Version:          domain.BackupVersion,
		ExportDate:       time.Now().UTC(),
		Transactions:     uc.ledger.Transactions(),
		CustomCategories: custom,
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return ExportResult{}, fmt.Errorf("serialize backup document: %w", err)
	}

	path, err := uc.files.WriteBackup(uc.codec.Encode(string(payload)), doc.ExportDate)
	if err != nil {
		return ExportResult{}, err
	}

	uc.log.Info().Str("path", path).Int("count", len(doc.Transactions)).Msg("backup exported")
	return ExportResult{Path: path, Count: len(doc.Transactions)}, nil
}

// ExportWithReport writes the encoded backup and the CSV report
// concurrently. Either failure fails the whole operation.
func (uc *BackupUseCase) ExportWithReport(ctx context.Context) (ExportResult, string, error) {
	catalog, err := uc.categories.Catalog(ctx)
	if err != nil {
		return ExportResult{}, "", err
	}
	transactions := uc.ledger.Transactions()

	var (
		result     ExportResult
		reportPath string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = uc.Export(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reportPath, err = uc.reports.WriteReport(transactions, catalog, time.Now().UTC())
		return err
	})
	if err := g.Wait(); err != nil {
		return ExportResult{}, "", err
	}
	return result, reportPath, nil
}

// ExportSummary writes the per-category summary CSV.
func (uc *BackupUseCase) ExportSummary(ctx context.Context) (string, error) {
	catalog, err := uc.categories.Catalog(ctx)
	if err != nil {
		return "", err
	}
	return uc.reports.WriteSummary(uc.ledger.Transactions(), catalog, time.Now().UTC())
}

// Import reads and decodes a backup file and returns the parsed document
// without touching the ledger. Decode failures surface as
// domain.ErrCorruptBackup, structural failures as
// domain.ErrUnrecognizedBackup.
func (uc *BackupUseCase) Import(ctx context.Context, path string) (*domain.BackupDocument, error) {
	raw, err := uc.files.Read(path)
	if err != nil {
		return nil, err
	}

	payload, err := uc.codec.Decode(raw)
	if err != nil {
		return nil, err
	}

	var doc domain.BackupDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnrecognizedBackup, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	uc.log.Info().Str("path", path).Int("count", len(doc.Transactions)).Msg("backup parsed")
	return &doc, nil
}

// Merge inserts the document's transactions that are not already present in
// the ledger, detecting duplicates by content fingerprint (amount, type,
// category, date and note; never the store-assigned fields). Custom categories
// in the document are appended as new custom categories.
func (uc *BackupUseCase) Merge(ctx context.Context, doc *domain.BackupDocument) (MergeResult, error) {
	result := MergeResult{Total: len(doc.Transactions)}

	existing := make(map[string]struct{})
	for _, tx := range uc.ledger.Transactions() {
		existing[tx.Fingerprint()] = struct{}{}
	}

	for _, tx := range doc.Transactions {
		fp := tx.Fingerprint()
		if _, dup := existing[fp]; dup {
			result.Skipped++
			continue
		}
		if _, err := uc.ledger.Add(ctx, tx.Input()); err != nil {
			uc.log.Warn().Err(err).Str("fingerprint", fp).Msg("import insert failed")
			result.Errors = append(result.Errors, fmt.Errorf("insert %s: %w", fp, err))
			continue
		}
		existing[fp] = struct{}{}
		result.Imported++
	}

	imported, err := uc.categories.ImportCustom(ctx, doc.CustomCategories)
	result.CategoriesImported = imported
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("import custom categories: %w", err))
	}

	uc.log.Info().
		Int("total", result.Total).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Errors)).
		Msg("backup merged")
	return result, nil
}

// ListBackups returns previously exported backup files, newest first.
func (uc *BackupUseCase) ListBackups() ([]BackupFile, error) {
	return uc.files.List()
}
