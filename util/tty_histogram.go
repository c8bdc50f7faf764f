package util

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

type TtyHistOpts struct {
	Name      string
	Scale     string
	N         int64 // samples per report
	Min       int64
	Max       int64
	Precision int
	Writer    io.Writer
}

// TtyHist records samples and writes a percentile table to Writer every N
// samples, then starts over. It is not safe for concurrent use.
type TtyHist struct {
	opts TtyHistOpts

	hdr  *hdrhistogram.Histogram
	tabw *tabwriter.Writer
	n    int
}

func NewTtyHist(opts TtyHistOpts) *TtyHist {
	h := &TtyHist{
		opts: opts,
		hdr:  hdrhistogram.New(opts.Min, opts.Max, opts.Precision),
	}
	if opts.Writer != nil {
		h.tabw = tabwriter.NewWriter(opts.Writer, 2, 2, 2, byte(' '), 0)
	}
	return h
}

// Add records xs, reporting when the sample count reaches N. Values outside
// [Min, Max] are dropped.
func (h *TtyHist) Add(xs ...int64) {
	for _, x := range xs {
		_ = h.hdr.RecordValue(x)
	}
	if h.opts.N > 0 && h.hdr.TotalCount() >= h.opts.N {
		h.n++
		h.report()
		h.hdr.Reset()
	}
}

// Reported returns how many reports were produced.
func (h *TtyHist) Reported() int {
	return h.n
}

func (h *TtyHist) report() {
	if h.tabw == nil {
		return
	}

	fmt.Fprintf(h.tabw,
		"%v report=%d name=%s samples=%d scale=%s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		h.n, h.opts.Name, h.hdr.TotalCount(), h.opts.Scale,
	)
	fmt.Fprintf(h.tabw,
		"min/avg/max/stddev\t%d/%.3f/%d/%.3f\n",
		h.hdr.Min(), h.hdr.Mean(), h.hdr.Max(), h.hdr.StdDev())
	for _, p := range []float64{50, 75, 90, 99, 99.9} {
		fmt.Fprintf(h.tabw, "p%g\t%d\n", p, h.hdr.ValueAtPercentile(p))
	}

	_ = h.tabw.Flush()
}
