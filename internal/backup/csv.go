package backup

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sochitieu/internal/domain"
)

// utf8BOM makes spreadsheet applications pick the right encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const reportDateLayout = "02/01/2006"

// ReportWriter produces the human-readable CSV exports. These are one-way
// reports, not round-trip backups.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates a ReportWriter targeting dir.
func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{dir: dir}
}

func typeLabel(t domain.TransactionType) string {
	if t == domain.TypeIncome {
		return "Thu"
	}
	return "Chi"
}

// WriteReport writes one CSV row per transaction and returns the file path.
func (w *ReportWriter) WriteReport(transactions []domain.Transaction, catalog []domain.CategoryMeta, at time.Time) (string, error) {
	name := fmt.Sprintf("%s_Report_%d.csv", appPrefix, at.UnixMilli())

	return w.writeFile(name, func(cw *csv.Writer) error {
		if err := cw.Write([]string{"Ngày", "Loại", "Danh mục", "Số tiền", "Ghi chú"}); err != nil {
			return err
		}
		for _, tx := range transactions {
			row := []string{
				tx.Date.Format(reportDateLayout),
				typeLabel(tx.Type),
				domain.LookupCategory(catalog, tx.Category).Label,
				tx.Amount.String(),
				tx.Note,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSummary writes per-category income/expense/net rows plus a grand
// total and returns the file path.
func (w *ReportWriter) WriteSummary(transactions []domain.Transaction, catalog []domain.CategoryMeta, at time.Time) (string, error) {
	name := fmt.Sprintf("%s_Summary_%d.csv", appPrefix, at.UnixMilli())

	type pair struct {
		income  decimal.Decimal
		expense decimal.Decimal
	}
	perLabel := make(map[string]*pair)
	totalIncome, totalExpense := decimal.Zero, decimal.Zero

	for _, tx := range transactions {
		label := domain.LookupCategory(catalog, tx.Category).Label
		p, ok := perLabel[label]
		if !ok {
			p = &pair{income: decimal.Zero, expense: decimal.Zero}
			perLabel[label] = p
		}
		if tx.Type == domain.TypeIncome {
			p.income = p.income.Add(tx.Amount)
			totalIncome = totalIncome.Add(tx.Amount)
		} else {
			p.expense = p.expense.Add(tx.Amount)
			totalExpense = totalExpense.Add(tx.Amount)
		}
	}

	labels := make([]string, 0, len(perLabel))
	for label := range perLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	return w.writeFile(name, func(cw *csv.Writer) error {
		if err := cw.Write([]string{"Danh mục", "Thu nhập", "Chi tiêu", "Chênh lệch"}); err != nil {
			return err
		}
		for _, label := range labels {
			p := perLabel[label]
			row := []string{label, p.income.String(), p.expense.String(), p.income.Sub(p.expense).String()}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		total := []string{"TỔNG CỘNG", totalIncome.String(), totalExpense.String(), totalIncome.Sub(totalExpense).String()}
		return cw.Write(total)
	})
}

func (w *ReportWriter) writeFile(name string, fill func(*csv.Writer) error) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := fill(cw); err != nil {
		return "", fmt.Errorf("write report rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report file: %w", err)
	}
	return path, nil
}
