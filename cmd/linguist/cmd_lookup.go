package main

import (
	"fmt"

	"github.com/snapcore/go-linguist"
)

type lookupCommand struct {
	Context string `short:"c" long:"context" value-name:"CONTEXT" description:"context of the source string"`
	Comment string `short:"m" long:"comment" value-name:"COMMENT" description:"disambiguating comment"`
	Count   *int   `short:"n" long:"count" value-name:"N" description:"select the plural form for N"`

	Positional struct {
		File   string   `positional-arg-name:"FILE" required:"yes"`
		Source string   `positional-arg-name:"SOURCE" required:"yes"`
		Args   []string `positional-arg-name:"ARG"`
	} `positional-args:"yes"`
}

func (x *lookupCommand) Execute(args []string) error {
	c, err := linguist.LoadFile(x.Positional.File, opts.loadOptions()...)
	if err != nil {
		return err
	}

	req := linguist.Request{
		Context: x.Context,
		Source:  x.Positional.Source,
		Comment: x.Comment,
	}
	for _, arg := range x.Positional.Args {
		req.Args = append(req.Args, arg)
	}
	if x.Count != nil {
		req.Plural = true
		req.N = *x.Count
	}
	fmt.Fprintln(Stdout, c.Resolve(req))
	return nil
}
