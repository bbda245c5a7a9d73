package backup

import (
	"bytes"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/sochitieu/internal/domain"
)

func reportTransactions() []domain.Transaction {
	return []domain.Transaction{
		{
			ID:       2,
			Amount:   decimal.NewFromInt(5000000),
			Type:     domain.TypeIncome,
			Category: "salary",
			Date:     time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
			Note:     `lương tháng 5, có "thưởng"`,
		},
		{
			ID:       1,
			Amount:   decimal.NewFromInt(25000),
			Type:     domain.TypeExpense,
			Category: "food",
			Date:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			Note:     "cà phê",
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, utf8BOM), "file must start with a UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteReport(t *testing.T) {
	writer := NewReportWriter(t.TempDir())
	at := time.Date(2025, 5, 2, 12, 0, 0, 0, time.UTC)

	path, err := writer.WriteReport(reportTransactions(), domain.BuiltinCategories, at)
	require.NoError(t, err)
	assert.Contains(t, path, "SoChiTieu_Report_1746187200000.csv")

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Ngày", "Loại", "Danh mục", "Số tiền", "Ghi chú"}, records[0])
	assert.Equal(t, []string{"02/05/2025", "Thu", "Lương", "5000000", `lương tháng 5, có "thưởng"`}, records[1])
	assert.Equal(t, []string{"01/05/2025", "Chi", "Ăn uống", "25000", "cà phê"}, records[2])
}

func TestWriteReportUnknownCategoryFallsBack(t *testing.T) {
	writer := NewReportWriter(t.TempDir())

	transactions := []domain.Transaction{{
		ID:       1,
		Amount:   decimal.NewFromInt(100),
		Type:     domain.TypeExpense,
		Category: "deleted_custom",
		Date:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}}

	path, err := writer.WriteReport(transactions, domain.BuiltinCategories, time.Now())
	require.NoError(t, err)

	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "Khác", records[1][2])
}

func TestWriteSummary(t *testing.T) {
	writer := NewReportWriter(t.TempDir())

	path, err := writer.WriteSummary(reportTransactions(), domain.BuiltinCategories, time.Now())
	require.NoError(t, err)

	records := readCSV(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Danh mục", "Thu nhập", "Chi tiêu", "Chênh lệch"}, records[0])
	assert.Equal(t, []string{"Lương", "5000000", "0", "5000000"}, records[1])
	assert.Equal(t, []string{"Ăn uống", "0", "25000", "-25000"}, records[2])
	assert.Equal(t, []string{"TỔNG CỘNG", "5000000", "25000", "4975000"}, records[3])
}
