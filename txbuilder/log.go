package txbuilder

import "github.com/btcsuite/btclog"

const Subsystem = "TXBD"

var log btclog.Logger = btclog.Disabled

// UseLogger lets a caller route this package's logging into its own
// logging backend, matching the btclog subsystem convention used
// throughout this module's packages.
func UseLogger(logger btclog.Logger) {
	log = logger
}
