//go:build !sqlite

package storage

import "fmt"

func newSQLiteStore(path string) (Store, error) {
	return nil, fmt.Errorf("%w: cannot open %s; rebuild with -tags sqlite", ErrSQLiteUnavailable, path)
}
