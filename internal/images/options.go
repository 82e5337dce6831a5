package images

import (
	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
)

// Options configures the image stages.
type Options struct {
	Widths   []int
	Quality  Quality
	Recorder metrics.Recorder
}

func (o Options) withDefaults() Options {
	if len(o.Widths) == 0 {
		o.Widths = config.DefaultWidths
	}
	if o.Quality == (Quality{}) {
		o.Quality = DefaultQuality
	}
	o.Recorder = metrics.OrNoop(o.Recorder)
	return o
}
