package domain

import "errors"

var (
	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrEmptyCategory       = errors.New("category must not be empty")
	ErrZeroDate            = errors.New("date must be set")

	// Category errors
	ErrCategoryNotFound = errors.New("category not found")
	ErrEmptyLabel       = errors.New("category label must not be empty")

	// Backup errors
	ErrCorruptBackup      = errors.New("backup data is corrupt or not decodable")
	ErrUnrecognizedBackup = errors.New("backup document has an unrecognized format")
)
