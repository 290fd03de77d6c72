package pgcollector

import "github.com/btcsuite/btclog"

// Subsystem is this package's logging tag.
const Subsystem = "PGCL"

var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used by pgcollector.
func UseLogger(logger btclog.Logger) {
	log = logger
}
