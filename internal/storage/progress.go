package storage

import (
	"io"
	"sync/atomic"
)

// ProgressFunc receives the fraction of bytes transferred, in [0, 1].
type ProgressFunc func(fraction float64)

// ProgressReader reports read progress against a known total.
type ProgressReader struct {
	r      io.Reader
	total  int64
	read   atomic.Int64
	report ProgressFunc
}

func NewProgressReader(r io.Reader, total int64, report ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, report: report}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.report != nil {
		done := p.read.Add(int64(n))
		if p.total > 0 {
			frac := float64(done) / float64(p.total)
			if frac > 1 {
				frac = 1
			}
			p.report(frac)
		}
	}
	return n, err
}
