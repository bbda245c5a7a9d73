package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/sochitieu/internal/backup"
	"github.com/iho/sochitieu/internal/domain"
	"github.com/iho/sochitieu/internal/usecase"
	"github.com/iho/sochitieu/internal/usecase/mocks"
)

type backupEnv struct {
	dir        string
	ledger     *usecase.LedgerUseCase
	ledgerRepo *mocks.MockTransactionRepository
	categories *usecase.CategoryUseCase
	backups    *usecase.BackupUseCase
}

func newBackupEnv(t *testing.T) *backupEnv {
	t.Helper()

	dir := t.TempDir()
	ledgerRepo := mocks.NewMockTransactionRepository()
	ledger := usecase.NewLedgerUseCase(ledgerRepo, zerolog.Nop())
	require.NoError(t, ledger.Load(context.Background()))

	categories := usecase.NewCategoryUseCase(
		mocks.NewMockCategoryRepository(), mocks.NewMockIDGenerator(), zerolog.Nop())

	backups := usecase.NewBackupUseCase(
		ledger,
		categories,
		backup.NewCodec(),
		backup.NewFileStore(dir),
		backup.NewReportWriter(dir),
		zerolog.Nop(),
	)

	return &backupEnv{
		dir:        dir,
		ledger:     ledger,
		ledgerRepo: ledgerRepo,
		categories: categories,
		backups:    backups,
	}
}

func (e *backupEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := e.ledger.Add(ctx, domain.TransactionInput{
		Amount:   decimal.NewFromInt(5000000),
		Type:     domain.TypeIncome,
		Category: "salary",
		Date:     time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		Note:     "lương tháng 5",
	})
	require.NoError(t, err)

	_, err = e.ledger.Add(ctx, domain.TransactionInput{
		Amount:   decimal.NewFromInt(25000),
		Type:     domain.TypeExpense,
		Category: "food",
		Date:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Note:     "cà phê",
	})
	require.NoError(t, err)

	_, err = e.categories.AddCustom(ctx, domain.CategoryMeta{
		Label: "Thú cưng",
		Kind:  domain.CategoryExpense,
	})
	require.NoError(t, err)
}

func TestExportImportMergeRoundTrip(t *testing.T) {
	env := newBackupEnv(t)
	ctx := context.Background()
	env.seed(t)

	result, err := env.backups.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	// Exported content must not be readable plaintext.
	raw, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "salary")

	require.NoError(t, env.ledger.Clear(ctx))
	require.Empty(t, env.ledger.Transactions())

	doc, err := env.backups.Import(ctx, result.Path)
	require.NoError(t, err)
	assert.Equal(t, domain.BackupVersion, doc.Version)
	assert.Len(t, doc.Transactions, 2)
	assert.Len(t, doc.CustomCategories, 1)

	// Import alone leaves the ledger untouched.
	assert.Empty(t, env.ledger.Transactions())

	merge, err := env.backups.Merge(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, merge.Total)
	assert.Equal(t, 2, merge.Imported)
	assert.Equal(t, 0, merge.Skipped)
	assert.Equal(t, 1, merge.CategoriesImported)
	assert.Empty(t, merge.Errors)

	transactions := env.ledger.Transactions()
	require.Len(t, transactions, 2)
	assert.Equal(t, "salary", transactions[0].Category)
	assert.True(t, env.ledger.Stats().TotalIncome.Equal(decimal.NewFromInt(5000000)))
}

func TestMergeSkipsDuplicates(t *testing.T) {
	env := newBackupEnv(t)
	ctx := context.Background()
	env.seed(t)

	result, err := env.backups.Export(ctx)
	require.NoError(t, err)

	doc, err := env.backups.Import(ctx, result.Path)
	require.NoError(t, err)

	// The ledger still holds every exported record, so nothing imports.
	merge, err := env.backups.Merge(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, merge.Imported)
	assert.Equal(t, merge.Total, merge.Skipped)
	assert.Len(t, env.ledger.Transactions(), 2)
}

func TestMergeDeduplicatesWithinDocument(t *testing.T) {
	env := newBackupEnv(t)
	ctx := context.Background()

	tx := domain.Transaction{
		ID:       7,
		Amount:   decimal.NewFromInt(100),
		Type:     domain.TypeExpense,
		Category: "food",
		Date:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	doc := &domain.BackupDocument{
		Version:      domain.BackupVersion,
		ExportDate:   time.Now().UTC(),
		Transactions: []domain.Transaction{tx, tx},
	}

	merge, err := env.backups.Merge(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, merge.Imported)
	assert.Equal(t, 1, merge.Skipped)
	assert.Len(t, env.ledger.Transactions(), 1)
}

func TestMergePartialFailure(t *testing.T) {
	env := newBackupEnv(t)
	ctx := context.Background()

	insertErr := errors.New("constraint violation")
	env.ledgerRepo.InsertFunc = failTransport(env.ledgerRepo, insertErr)

	doc := &domain.BackupDocument{
		Version:    domain.BackupVersion,
		ExportDate: time.Now().UTC(),
		Transactions: []domain.Transaction{
			{Amount: decimal.NewFromInt(100), Type: domain.TypeExpense, Category: "food", Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
			{Amount: decimal.NewFromInt(200), Type: domain.TypeExpense, Category: "transport", Date: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
			{Amount: decimal.NewFromInt(300), Type: domain.TypeExpense, Category: "home", Date: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)},
		},
	}

	merge, err := env.backups.Merge(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, merge.Imported)
	require.Len(t, merge.Errors, 1)
	assert.ErrorIs(t, merge.Errors[0], insertErr)
	assert.Len(t, env.ledger.Transactions(), 2)
}

func TestImportCorruptFile(t *testing.T) {
	env := newBackupEnv(t)

	path := filepath.Join(env.dir, "SoChiTieu_Backup_1.sct")
	require.NoError(t, os.WriteFile(path, []byte("definitely *** not base64 ***"), 0o644))

	_, err := env.backups.Import(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrCorruptBackup)
}

func TestImportUnrecognizedDocument(t *testing.T) {
	env := newBackupEnv(t)
	codec := backup.NewCodec()

	cases := map[string]string{
		"not json":        "hello there",
		"missing version": `{"transactions":[]}`,
		"no transactions": `{"version":"1.0"}`,
	}
	for name, payload := range cases {
		path := filepath.Join(env.dir, "in_"+name+".sct")
		require.NoError(t, os.WriteFile(path, []byte(codec.Encode(payload)), 0o644))

		_, err := env.backups.Import(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrUnrecognizedBackup, name)
	}
}

func TestExportWithReport(t *testing.T) {
	env := newBackupEnv(t)
	ctx := context.Background()
	env.seed(t)

	result, reportPath, err := env.backups.ExportWithReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.FileExists(t, result.Path)
	assert.FileExists(t, reportPath)
}

func TestExportSummary(t *testing.T) {
	env := newBackupEnv(t)
	ctx := context.Background()
	env.seed(t)

	path, err := env.backups.ExportSummary(ctx)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestListBackups(t *testing.T) {
	env := newBackupEnv(t)
	ctx := context.Background()

	files, err := env.backups.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, files)

	result, err := env.backups.Export(ctx)
	require.NoError(t, err)

	files, err = env.backups.ListBackups()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, result.Path, files[0].Path)
}

func failTransport(repo *mocks.MockTransactionRepository, insertErr error) func(context.Context, domain.TransactionInput) (domain.Transaction, error) {
	return func(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error) {
		if input.Category == "transport" {
			return domain.Transaction{}, insertErr
		}
		fn := repo.InsertFunc
		repo.InsertFunc = nil
		result, err := repo.Insert(ctx, input)
		repo.InsertFunc = fn
		return result, err
	}
}
