package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/viperadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"

	"github.com/lukascekic/scriptrunner/highlight"
)

// tracers of this module, their levels are set from the command line.
var tracerKeys = []string{
	"scriptrunner.cli",
	"scriptrunner.lexer",
	"scriptrunner.bracket",
	"scriptrunner.highlight",
	"scriptrunner.completion",
	"scriptrunner.workspace",
}

// main() starts an interactive CLI, where users may edit a Kotlin script line
// by line and watch the incremental lexer re-use its line cache.
func main() {
	initDisplay()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	confname := flag.String("config", "srlex", "Name of configuration file")
	flag.Parse()
	if err := initConfig(*confname, *tlevel); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	pterm.Info.Println("Welcome to srlex") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	s := newSession(os.Stdout, highlight.New())
	if flag.NArg() > 0 {
		if err := s.load(flag.Arg(0)); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(3)
		}
	}
	repl, err := readline.New("srlex> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	tracer().Infof("Quit with <ctrl>D or :quit") // inform user how to stop the CLI
	s.show()
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		quit, err := s.exec(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	fmt.Println("Good bye!")
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// initConfig reads the configuration with viper and routes tracing to the
// Go logger.
func initConfig(name string, level string) error {
	conf := viperadapter.New(name)
	conf.InitConfigPath()
	gconf.Initialize(conf)
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "tracelevel", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("cannot configure tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	l := tracing.TraceLevelFromString(level)
	for _, key := range tracerKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	return nil
}
