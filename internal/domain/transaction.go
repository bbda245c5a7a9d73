package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is the ledger's unit of record. ID and CreatedAt are assigned
// by the store on insert and never change afterwards; UpdatedAt is refreshed
// on every update.
type Transaction struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	Wallet    string          `json:"wallet,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Fingerprint identifies a transaction by its user-entered content, ignoring
// the store-assigned ID and timestamps. Two records with equal fingerprints
// are treated as duplicates by the import merge.
func (t Transaction) Fingerprint() string {
	return fmt.Sprintf("%s_%s_%s_%s_%s",
		t.Amount.String(), t.Type, t.Category, t.Date.UTC().Format(time.RFC3339), t.Note)
}

// Input returns the user-entered fields of the transaction, suitable for
// re-inserting the record into another ledger.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Amount:   t.Amount,
		Type:     t.Type,
		Category: t.Category,
		Date:     t.Date,
		Note:     t.Note,
		Wallet:   t.Wallet,
		Tags:     t.Tags,
	}
}

// TransactionInput carries the fields a caller provides when creating a
// transaction. Amount, Type, Category and Date are required; the rest are
// optional annotations.
type TransactionInput struct {
	Amount   decimal.Decimal `json:"amount"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
	Note     string          `json:"note,omitempty"`
	Wallet   string          `json:"wallet,omitempty"`
	Tags     []string        `json:"tags,omitempty"`
}

// Validate checks structural shape only. Referential integrity of Category
// is deliberately not enforced; dangling references degrade to the fallback
// category at display time.
func (in TransactionInput) Validate() error {
	if in.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, string(in.Type))
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if in.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// TransactionPatch describes a partial update. Nil fields are left untouched
// by the merge; non-nil fields replace the current value.
type TransactionPatch struct {
	Amount   *decimal.Decimal
	Type     *TransactionType
	Category *string
	Date     *time.Time
	Note     *string
	Wallet   *string
	Tags     []string
}

// Validate checks the fields that are present.
func (p TransactionPatch) Validate() error {
	if p.Amount != nil && p.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if p.Type != nil && !p.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, string(*p.Type))
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return ErrEmptyCategory
	}
	if p.Date != nil && p.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Apply shallow-merges the patch onto t and returns the merged record.
// ID and CreatedAt are never touched; the caller stamps UpdatedAt.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	if p.Wallet != nil {
		t.Wallet = *p.Wallet
	}
	if p.Tags != nil {
		t.Tags = p.Tags
	}
	return t
}
