package counter

import "log/slog"

// Summary aggregates one measure over a set of documents.
type Summary struct {
	Unit      string  `json:"unit"`
	Documents int     `json:"documents"`
	Total     int     `json:"total"`
	Min       int     `json:"min"`
	Max       int     `json:"max"`
	Mean      float64 `json:"mean"`
	Longest   int     `json:"longest"` // index of the first document with Max units
}

// Summarize counts every document with c. An empty set yields a zero Summary
// carrying only the unit name.
func Summarize(docs []string, c Counter) Summary {
	s := Summary{Unit: c.Name(), Documents: len(docs)}
	if len(docs) == 0 {
		return s
	}

	for i, doc := range docs {
		n := c.Count(doc)
		s.Total += n
		if i == 0 || n < s.Min {
			s.Min = n
		}
		if i == 0 || n > s.Max {
			s.Max = n
			s.Longest = i
		}
	}
	s.Mean = float64(s.Total) / float64(len(docs))

	slog.Debug("Documents measured", "unit", s.Unit, "documents", s.Documents, "total", s.Total)
	return s
}
