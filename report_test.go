package linguist

import (
	. "gopkg.in/check.v1"
)

type reportSuite struct{}

var _ = Suite(&reportSuite{})

func (s *reportSuite) TestReport(c *C) {
	cat := mustCatalog(c, "de",
		Context{Name: "A", Messages: []Message{
			{Source: "one", Translation: Single("eins")},
			{Source: "one", Translation: Single("ein"), Status: Obsolete},
			{Source: "two", Status: Unfinished},
		}},
		Context{Name: "B", Messages: []Message{
			{Source: "three", Translation: Single("drei")},
		}},
	)
	r := Report(cat)
	c.Check(r.Language, Equals, "de")
	c.Check(r.Counts, Equals, Counts{Finished: 2, Unfinished: 1, Obsolete: 1})
	c.Check(r.Total(), Equals, 4)
	c.Check(r.Completion(), Equals, 2.0/3.0)
	c.Check(r.PerContext, DeepEquals, []ContextReport{
		{Name: "A", Counts: Counts{Finished: 1, Unfinished: 1, Obsolete: 1}},
		{Name: "B", Counts: Counts{Finished: 1}},
	})
	c.Check(r.Incomplete(), DeepEquals, []ContextReport{
		{Name: "A", Counts: Counts{Finished: 1, Unfinished: 1, Obsolete: 1}},
	})
}

func (s *reportSuite) TestReportEmpty(c *C) {
	r := Report(nil)
	c.Check(r.Total(), Equals, 0)
	c.Check(r.Completion(), Equals, 1.0)
	c.Check(r.PerContext, HasLen, 0)

	r = Report(mustCatalog(c, "de", Context{Name: "A", Messages: []Message{
		{Source: "gone", Status: Obsolete},
	}}))
	c.Check(r.Completion(), Equals, 1.0)
	c.Check(r.Incomplete(), HasLen, 0)
}
