package store

import (
	"errors"
	"fmt"
)

// error kinds returned by the store, check with errors.Is
var (
	ErrIO              = errors.New("io error")
	ErrStoreOpen       = errors.New("store open error")
	ErrMigration       = errors.New("migration error")
	ErrSettingsMissing = errors.New("settings row missing")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")

	// ErrNoSelection is a kind of ErrNotFound
	ErrNoSelection = fmt.Errorf("no workspace selected: %w", ErrNotFound)
)
