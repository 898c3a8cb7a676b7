// Package main renders the locale completeness report and optionally fails
// when a locale lags behind the base locale.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/roguedex/gamedata/internal/platform/config"
)

func main() {
	var opts options
	flag.StringVar(&opts.LocalesDir, "locales-dir", "", "directory containing locales/<code>/<namespace>.yaml (default: embedded bundle)")
	flag.StringVar(&opts.MarkdownOut, "out", "", "markdown output path (default: stdout)")
	flag.StringVar(&opts.JSONOut, "json-out", "", "json output path")
	flag.BoolVar(&opts.Check, "check", false, "exit non-zero when any locale is incomplete")
	flag.Parse()

	bundle, err := loadBundle(opts.LocalesDir)
	if err != nil {
		config.Exitf("load locale catalogs: %v", err)
	}
	rep := buildReport(bundle)
	if opts.JSONOut != "" {
		if err := writeJSON(opts.JSONOut, rep); err != nil {
			config.Exitf("write json report: %v", err)
		}
	}
	if opts.MarkdownOut == "" {
		if _, err := fmt.Fprint(os.Stdout, renderMarkdown(rep)); err != nil {
			config.Exitf("write markdown report: %v", err)
		}
	} else if err := writeFile(opts.MarkdownOut, []byte(renderMarkdown(rep))); err != nil {
		config.Exitf("write markdown report: %v", err)
	}
	if opts.Check {
		if err := bundle.CheckComplete(); err != nil {
			config.Exitf("%v", err)
		}
	}
}
