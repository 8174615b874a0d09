package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/snapcore/go-linguist"
)

var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

type options struct {
	LogLevel string `long:"log-level" env:"LINGUIST_LOG_LEVEL" default:"warn" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"disabled" description:"minimum level of the diagnostics printed"`

	StrictPlurals bool `long:"strict-plurals" env:"LINGUIST_STRICT_PLURALS" description:"reject plural translations whose form count disagrees with the language"`

	Language string `long:"language" env:"LINGUIST_LANGUAGE" value-name:"LOCALE" description:"language of catalogs that do not declare one"`
}

var opts options

// errFailed is returned by commands whose outcome was printed already.
var errFailed = errors.New("failed")

func (o *options) loadOptions() []linguist.Option {
	var lopts []linguist.Option
	if o.Language != "" {
		lopts = append(lopts, linguist.WithLanguage(o.Language))
	}
	if o.StrictPlurals {
		lopts = append(lopts, linguist.WithStrictPlurals())
	}
	return lopts
}

func consoleWriter(w io.Writer) io.Writer {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.DateTime}
}

func setupLogging() error {
	level, err := zerolog.ParseLevel(opts.LogLevel)
	if err != nil {
		return err
	}
	linguist.Logger = zerolog.New(consoleWriter(Stderr)).
		Level(level).
		With().Timestamp().Str("sys", "linguist").Logger()
	return nil
}

func newParser() *flags.Parser {
	opts = options{}
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "linguist"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}
	mustAddCommand(parser, "report", "Show translation progress", "The report command counts finished, unfinished and obsolete messages of each catalog.", &reportCommand{})
	mustAddCommand(parser, "convert", "Convert a catalog", "The convert command reads a catalog and writes it in the format given by the output file extension (.ts, .po, .yaml).", &convertCommand{})
	mustAddCommand(parser, "lookup", "Translate one string", "The lookup command resolves a source string against a catalog, as an application would.", &lookupCommand{})
	return parser
}

func mustAddCommand(parser *flags.Parser, name, short, long string, data any) {
	if _, err := parser.AddCommand(name, short, long, data); err != nil {
		panic(err)
	}
}

func run(args []string) int {
	parser := newParser()
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(Stdout, flagsErr.Message)
			return 0
		}
		if err != errFailed {
			fmt.Fprintf(Stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}
