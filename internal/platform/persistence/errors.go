// Package persistence opens and closes the storage backends the ledger can
// run on. Repositories built on top of these connections live in
// internal/data.
package persistence

import "errors"

// ErrStorageUnavailable wraps every failure to open, migrate or reach a
// store. Callers treat it as fatal for the operation in progress.
var ErrStorageUnavailable = errors.New("storage unavailable")
