package domain

import "strings"

// CategoryKind tells which transaction types a category applies to.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
	CategoryCommon  CategoryKind = "common"
)

// Valid reports whether k is a known category kind.
func (k CategoryKind) Valid() bool {
	return k == CategoryIncome || k == CategoryExpense || k == CategoryCommon
}

// FallbackCategoryID is used when a transaction references a category that
// no longer exists in the catalog.
const FallbackCategoryID = "others"

// CategoryMeta describes a classification dimension for transactions.
// Built-in categories are a fixed static set; custom ones are created at
// runtime and persisted separately.
type CategoryMeta struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Kind        CategoryKind `json:"type"`
	Icon        string       `json:"icon"`
	Color       string       `json:"color"`
	Description string       `json:"description,omitempty"`
	Custom      bool         `json:"custom,omitempty"`
}

// Validate checks a user-supplied category definition.
func (c CategoryMeta) Validate() error {
	if strings.TrimSpace(c.Label) == "" {
		return ErrEmptyLabel
	}
	if !c.Kind.Valid() {
		return ErrInvalidType
	}
	return nil
}

// BuiltinCategories is the fixed catalog shipped with the application.
var BuiltinCategories = []CategoryMeta{
	{ID: "salary", Label: "Lương", Kind: CategoryIncome, Icon: "dollar-sign", Color: "#1ABC9C", Description: "Thu nhập cố định hàng tháng"},
	{ID: "freelance", Label: "Freelance", Kind: CategoryIncome, Icon: "briefcase", Color: "#2ECC71", Description: "Dự án phụ và hoa hồng"},
	{ID: "gift", Label: "Quà tặng", Kind: CategoryIncome, Icon: "gift", Color: "#E67E22"},
	{ID: "investment", Label: "Đầu tư", Kind: CategoryIncome, Icon: "trending-up", Color: "#27AE60"},
	{ID: "food", Label: "Ăn uống", Kind: CategoryExpense, Icon: "coffee", Color: "#E74C3C"},
	{ID: "transport", Label: "Đi lại", Kind: CategoryExpense, Icon: "navigation", Color: "#9B59B6"},
	{ID: "home", Label: "Nhà cửa", Kind: CategoryExpense, Icon: "home", Color: "#3498DB"},
	{ID: "shopping", Label: "Mua sắm", Kind: CategoryExpense, Icon: "shopping-bag", Color: "#F39C12"},
	{ID: "health", Label: "Sức khỏe", Kind: CategoryExpense, Icon: "activity", Color: "#C0392B"},
	{ID: "education", Label: "Giáo dục", Kind: CategoryExpense, Icon: "book", Color: "#8E44AD"},
	{ID: "travel", Label: "Du lịch", Kind: CategoryExpense, Icon: "map-pin", Color: "#16A085"},
	{ID: "utilities", Label: "Tiện ích", Kind: CategoryExpense, Icon: "zap", Color: "#D35400"},
	{ID: FallbackCategoryID, Label: "Khác", Kind: CategoryCommon, Icon: "grid", Color: "#7F8C8D"},
}

// LookupCategory finds a category by id in the given catalog. A dangling id
// resolves to the fallback category rather than an error; the reference from
// transaction to category is soft.
func LookupCategory(catalog []CategoryMeta, id string) CategoryMeta {
	var fallback CategoryMeta
	for _, c := range catalog {
		if c.ID == id {
			return c
		}
		if c.ID == FallbackCategoryID {
			fallback = c
		}
	}
	if fallback.ID == "" {
		// Catalog without the fallback entry, keep the raw id visible.
		return CategoryMeta{ID: id, Label: id, Kind: CategoryCommon}
	}
	return fallback
}
