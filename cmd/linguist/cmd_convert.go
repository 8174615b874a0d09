package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/snapcore/go-linguist"
	"github.com/snapcore/go-linguist/internal/export"
)

type convertCommand struct {
	PackageName string `long:"package-name" value-name:"PACKAGE" description:"set package name in PO output"`

	Positional struct {
		Input  string `positional-arg-name:"INPUT" required:"yes"`
		Output string `positional-arg-name:"OUTPUT" required:"yes"`
	} `positional-args:"yes"`
}

type writeFunc func(w io.Writer, c *linguist.Catalog) error

func (x *convertCommand) writer(output string) (writeFunc, error) {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".ts":
		return export.WriteTS, nil
	case ".po":
		return func(w io.Writer, c *linguist.Catalog) error {
			return export.WritePO(w, c, export.POOptions{PackageName: x.PackageName})
		}, nil
	case ".yaml", ".yml":
		return linguist.WriteYAML, nil
	}
	return nil, fmt.Errorf("%w: %s", linguist.ErrUnknownFormat, filepath.Base(output))
}

func (x *convertCommand) Execute(args []string) error {
	write, err := x.writer(x.Positional.Output)
	if err != nil {
		return err
	}
	c, err := linguist.LoadFile(x.Positional.Input, opts.loadOptions()...)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := write(&buf, c); err != nil {
		return err
	}
	if x.Positional.Output == "-" {
		_, err = Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(x.Positional.Output, buf.Bytes(), 0644); err != nil {
		return err
	}
	linguist.Logger.Info().
		Str("input", x.Positional.Input).
		Str("output", x.Positional.Output).
		Int("messages", c.Len()).
		Msg("Converted catalog")
	return nil
}
