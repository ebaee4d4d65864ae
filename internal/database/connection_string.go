package database

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// pragma is a single PRAGMA applied to each new connection
type pragma struct {
	name  string
	value string
}

// pragmas lists the PRAGMAs implied by the options, in application order.
// journal_mode comes last so busy_timeout is already in effect when WAL is
// switched on.
func (opts *SQLiteOptions) pragmas() []pragma {
	var result []pragma

	if opts.BusyTimeout > 0 {
		result = append(result, pragma{"busy_timeout", strconv.Itoa(opts.BusyTimeout)})
	}
	if opts.ForeignKeys {
		result = append(result, pragma{"foreign_keys", "1"})
	} else {
		result = append(result, pragma{"foreign_keys", "0"})
	}
	if opts.CacheSize != 0 {
		result = append(result, pragma{"cache_size", strconv.Itoa(opts.CacheSize)})
	}
	if opts.Synchronous != "" {
		result = append(result, pragma{"synchronous", string(opts.Synchronous)})
	}
	if opts.Journal != "" {
		result = append(result, pragma{"journal_mode", string(opts.Journal)})
	}

	return result
}

// buildConnectionString generates a modernc SQLite DSN from options
func (opts *SQLiteOptions) buildConnectionString() string {
	params := url.Values{}

	if opts.Mode != "" {
		params.Set("mode", opts.Mode)
	}
	if opts.Cache != "" {
		params.Set("cache", string(opts.Cache))
	}
	if opts.Immutable {
		params.Set("immutable", "1")
	}
	if opts.TxLock != "" {
		params.Set("_txlock", string(opts.TxLock))
	}
	for _, p := range opts.pragmas() {
		params.Add("_pragma", fmt.Sprintf("%s(%s)", p.name, p.value))
	}

	connStr := opts.Path
	if !strings.HasPrefix(connStr, "file:") {
		connStr = "file:" + connStr
	}
	if encoded := params.Encode(); encoded != "" {
		connStr += "?" + encoded
	}

	return connStr
}
