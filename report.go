package linguist

import (
	"github.com/samber/lo"
)

// Counts tallies messages by status.
type Counts struct {
	Finished   int `json:"finished" yaml:"finished"`
	Unfinished int `json:"unfinished" yaml:"unfinished"`
	Obsolete   int `json:"obsolete" yaml:"obsolete"`
}

func (c *Counts) add(s Status) {
	switch s {
	case Finished:
		c.Finished++
	case Unfinished:
		c.Unfinished++
	case Obsolete:
		c.Obsolete++
	}
}

// Total returns the number of counted messages.
func (c Counts) Total() int {
	return c.Finished + c.Unfinished + c.Obsolete
}

// Completion returns the share of live (non obsolete) messages that are
// finished, between 0 and 1. A catalog with no live messages is complete.
func (c Counts) Completion() float64 {
	live := c.Finished + c.Unfinished
	if live == 0 {
		return 1
	}
	return float64(c.Finished) / float64(live)
}

// ContextReport holds the counts of one context.
type ContextReport struct {
	Name   string `json:"name" yaml:"name"`
	Counts `yaml:",inline"`
}

// StalenessReport summarizes the lifecycle state of a catalog.
type StalenessReport struct {
	Language   string          `json:"language" yaml:"language"`
	Counts     `yaml:",inline"`
	PerContext []ContextReport `json:"contexts" yaml:"contexts"`
}

// Incomplete returns the contexts that still have unfinished messages.
func (r StalenessReport) Incomplete() []ContextReport {
	return lo.Filter(r.PerContext, func(cr ContextReport, _ int) bool {
		return cr.Unfinished > 0
	})
}

// Report counts every message record of c by status, duplicates included.
// It walks the whole catalog and is meant for tooling, not for lookups.
func Report(c *Catalog) StalenessReport {
	r := StalenessReport{Language: c.Language()}
	if c == nil {
		return r
	}
	r.PerContext = lo.Map(c.contexts, func(ctx Context, _ int) ContextReport {
		cr := ContextReport{Name: ctx.Name}
		for i := range ctx.Messages {
			cr.add(ctx.Messages[i].Status)
		}
		return cr
	})
	for _, cr := range r.PerContext {
		r.Finished += cr.Finished
		r.Unfinished += cr.Unfinished
		r.Obsolete += cr.Obsolete
	}
	return r
}
