/*
Package srlex/main provides an interactive command line tool (srlex) to watch
the incremental lexer at work. srlex loads a Kotlin script, prints it
highlighted and lets users edit it line by line. After every edit the
document is tokenized again, re-using cached lines, and srlex reports how many
lines could be taken from the cache.

Usage:

	srlex [-trace Debug|Info|Error] [-config name] [script.kts]

Configuration is read with viper from a file named after -config (default
"srlex") in the current directory, $HOME/.srlex or $HOME/.config/srlex.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 Lukas Cekic

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scriptrunner.cli'
func tracer() tracing.Trace {
	return tracing.Select("scriptrunner.cli")
}
