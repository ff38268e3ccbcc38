package items

import "github.com/tarmac-project/storage/metrics"

// instruments holds the accessor's metric handles. The zero value is usable:
// nil handles drop every observation.
type instruments struct {
	reads      *metrics.Counter
	writes     *metrics.Counter
	updates    *metrics.Counter
	deletes    *metrics.Counter
	clears     *metrics.Counter
	errors     *metrics.Counter
	writeBytes *metrics.Histogram
}

func newInstruments(m metrics.Client) (instruments, error) {
	var (
		s   instruments
		err error
	)

	counters := []struct {
		name string
		dst  **metrics.Counter
	}{
		{"storage_read", &s.reads},
		{"storage_write", &s.writes},
		{"storage_update", &s.updates},
		{"storage_delete", &s.deletes},
		{"storage_clear", &s.clears},
		{"storage_errors", &s.errors},
	}
	for _, c := range counters {
		if *c.dst, err = m.NewCounter(c.name); err != nil {
			return instruments{}, err
		}
	}

	if s.writeBytes, err = m.NewHistogram("storage_write_bytes"); err != nil {
		return instruments{}, err
	}

	return s, nil
}
