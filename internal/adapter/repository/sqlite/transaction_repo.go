package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sochitieu/internal/domain"
)

// Dates are kept in fixed-width UTC text so the column's lexicographic
// order matches chronological order.
const (
	dateLayout  = time.RFC3339
	stampLayout = time.RFC3339Nano
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = "id, amount, type, category, date, note, wallet, tags, created_at, updated_at"

// FetchAll returns every record, most recent business date first, ties
// broken by id descending.
func (r *TransactionRepository) FetchAll(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return transactions, nil
}

// Insert persists a new record, assigning the id and both timestamps.
func (r *TransactionRepository) Insert(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error) {
	now := time.Now().UTC()
	tags, err := marshalTags(input.Tags)
	if err != nil {
		return domain.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (amount, type, category, date, note, wallet, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Amount.String(),
		string(input.Type),
		input.Category,
		input.Date.UTC().Format(dateLayout),
		input.Note,
		input.Wallet,
		tags,
		now.Format(stampLayout),
		now.Format(stampLayout),
	)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction id: %w", err)
	}

	return domain.Transaction{
		ID:        id,
		Amount:    input.Amount,
		Type:      input.Type,
		Category:  input.Category,
		Date:      input.Date.UTC(),
		Note:      input.Note,
		Wallet:    input.Wallet,
		Tags:      input.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetByID returns domain.ErrTransactionNotFound when the id is absent.
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, domain.ErrTransactionNotFound
		}
		return domain.Transaction{}, err
	}
	return tx, nil
}

// Update loads the current record, shallow-merges the patch onto it,
// refreshes updated_at and persists the merged record.
func (r *TransactionRepository) Update(ctx context.Context, id int64, patch domain.TransactionPatch) (domain.Transaction, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	merged := patch.Apply(current)
	merged.UpdatedAt = time.Now().UTC()

	tags, err := marshalTags(merged.Tags)
	if err != nil {
		return domain.Transaction{}, err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET amount = ?, type = ?, category = ?, date = ?, note = ?, wallet = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		merged.Amount.String(),
		string(merged.Type),
		merged.Category,
		merged.Date.UTC().Format(dateLayout),
		merged.Note,
		merged.Wallet,
		tags,
		merged.UpdatedAt.Format(stampLayout),
		id,
	)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return merged, nil
}

// Delete removes the record; a missing id is a harmless no-op.
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ClearAll removes every record.
func (r *TransactionRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		tx                     domain.Transaction
		amount, typ            string
		date, created, updated string
		tags                   string
	)
	err := row.Scan(&tx.ID, &amount, &typ, &tx.Category, &date, &tx.Note, &tx.Wallet, &tags, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, err
		}
		return domain.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	tx.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	tx.Type = domain.TransactionType(typ)
	if tx.Date, err = time.Parse(dateLayout, date); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	if tx.CreatedAt, err = time.Parse(stampLayout, created); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	if tx.UpdatedAt, err = time.Parse(stampLayout, updated); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse updated_at %q: %w", updated, err)
	}
	if err := json.Unmarshal([]byte(tags), &tx.Tags); err != nil {
		return domain.Transaction{}, fmt.Errorf("parse stored tags %q: %w", tags, err)
	}
	if len(tx.Tags) == 0 {
		tx.Tags = nil
	}
	return tx, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("serialize tags: %w", err)
	}
	return string(data), nil
}
