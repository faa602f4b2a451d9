package models

import "errors"

var (
	// ErrEmptyInput reports blank or whitespace-only text.
	ErrEmptyInput = errors.New("empty input")
	// ErrNoStructure reports text in which no headers or markers were found.
	ErrNoStructure = errors.New("no structure recognized")
)
