package library

import (
	"database/sql/driver"
	"fmt"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// foldFunc is the SQL function folding text for case-insensitive matching.
// SQLite's own LIKE only folds ASCII.
const foldFunc = "kyoo_fold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case nil:
			return nil, nil
		case string:
			return Fold(v), nil
		case []byte:
			return Fold(string(v)), nil
		default:
			return nil, fmt.Errorf("%s: unsupported argument type %T", foldFunc, v)
		}
	})
}

// Fold returns s case-folded, so "ÉCOLE" and "école" compare equal.
func Fold(s string) string {
	// Casers keep state and are not safe for concurrent use.
	return cases.Fold().String(s)
}
