package system

import (
	"context"
	"io"
	"text/template"
	"time"

	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	DefaultRefreshInterval = time.Second
	clearScreen            = "\033[H\033[2J"
)

var liveTemplate = template.Must(template.New("live").Parse(`{{.Clear}}=== Live System Metrics === {{.CurrentTime}}
CPU Usage: {{printf "%.1f" .CPU}}%
Memory Usage: {{.Memory}}
Disk Usage: {{.Disk}}
Network: {{.Network}}
`))

type printableUsage struct {
	Clear       string
	CurrentTime string
	CPU         float64
	Memory      *MemoryUsage
	Disk        *DiskUsage
	Network     *NetworkStats
}

// Live refreshes the metrics screen every interval until ctx is done. A
// cancelled context is a clean exit; failed samples are logged and skipped.
func (c *Collector) Live(ctx context.Context, w io.Writer, interval time.Duration, clear bool) error {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	err := wait.PollUntilContextCancel(ctx, interval, true, func(ctx context.Context) (bool, error) {
		s, err := c.Usage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).Warn("unable to sample system metrics")
			}
			return false, nil
		}
		p := printableUsage{
			CurrentTime: c.now().Format(time.RFC1123),
			CPU:         s.CPU,
			Memory:      s.Memory,
			Disk:        s.Disk,
			Network:     s.Network,
		}
		if clear {
			p.Clear = clearScreen
		}
		return false, liveTemplate.Execute(w, p)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
