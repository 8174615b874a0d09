package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/snapcore/go-linguist"
)

type reportCommand struct {
	Format    string  `short:"f" long:"format" env:"LINGUIST_FORMAT" default:"text" choice:"text" choice:"json" choice:"yaml" description:"output format"`
	FailUnder float64 `long:"fail-under" value-name:"PERCENT" description:"fail when a catalog is less complete than PERCENT"`

	Positional struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

func (x *reportCommand) Execute(args []string) error {
	var reports []linguist.StalenessReport
	for _, file := range x.Positional.Files {
		c, err := linguist.LoadFile(file, opts.loadOptions()...)
		if err != nil {
			return err
		}
		reports = append(reports, linguist.Report(c))
	}

	if err := x.print(reports); err != nil {
		return err
	}

	if x.FailUnder > 0 {
		for i, r := range reports {
			if 100*r.Completion() < x.FailUnder {
				fmt.Fprintf(Stderr, "%s is %.1f%% complete, below %.1f%%\n", x.Positional.Files[i], 100*r.Completion(), x.FailUnder)
				return errFailed
			}
		}
	}
	return nil
}

func (x *reportCommand) print(reports []linguist.StalenessReport) error {
	switch x.Format {
	case "json":
		enc := json.NewEncoder(Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		out, err := yaml.Marshal(reports)
		if err != nil {
			return err
		}
		_, err = Stdout.Write(out)
		return err
	}

	for i, r := range reports {
		lang := r.Language
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(Stdout, "%s (%s): %s, %.1f%% complete\n", x.Positional.Files[i], lang, countsString(r.Counts), 100*r.Completion())
		for _, cr := range r.PerContext {
			fmt.Fprintf(Stdout, "  %s: %s\n", cr.Name, countsString(cr.Counts))
		}
	}
	return nil
}

func countsString(c linguist.Counts) string {
	return fmt.Sprintf("%d finished, %d unfinished, %d obsolete", c.Finished, c.Unfinished, c.Obsolete)
}
