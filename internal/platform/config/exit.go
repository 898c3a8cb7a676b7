package config

import (
	"fmt"
	"os"
)

// Exitf prints the message to stderr and exits with status 1. The importer,
// progress and i18nstatus commands report flag, config and run errors with it.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
