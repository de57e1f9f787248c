// Package report writes the ranked results of a run.
package report

// Sink is a record oriented report. A run writes the description lines,
// then the header, then one row per ranked result, then closes the sink.
type Sink interface {
	Description(line string) error
	Header(columns []string) error
	Row(columns []string) error
	Close() error
}

// Discard is a sink that ignores every record
var Discard Sink = discard{}

type discard struct{}

func (discard) Description(string) error { return nil }
func (discard) Header([]string) error    { return nil }
func (discard) Row([]string) error       { return nil }
func (discard) Close() error             { return nil }

// Multi writes every record to all sinks, stopping at the first error
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

type multi []Sink

func (m multi) each(write func(Sink) error) error {
	for _, sink := range m {
		if err := write(sink); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Description(line string) error {
	return m.each(func(s Sink) error { return s.Description(line) })
}

func (m multi) Header(columns []string) error {
	return m.each(func(s Sink) error { return s.Header(columns) })
}

func (m multi) Row(columns []string) error {
	return m.each(func(s Sink) error { return s.Row(columns) })
}

// Close closes every sink and returns the first error
func (m multi) Close() error {
	var first error
	for _, sink := range m {
		if err := sink.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
