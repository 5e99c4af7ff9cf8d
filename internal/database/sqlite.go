package database

import (
	"database/sql/driver"
	"strings"

	sqlite "modernc.org/sqlite"
)

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction("casefold", 1, casefold); err != nil {
		panic(err)
	}
}

// casefold lower-cases text with Go's Unicode rules. NULL stays NULL.
func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
