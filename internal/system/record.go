package system

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

var csvHeader = []string{"timestamp", "cpu_usage", "memory_usage", "disk_usage", "network_sent", "network_recv"}

// RecordCSV appends one usage sample to the CSV history file, writing the
// header first when the file is empty. It returns the recorded timestamp.
func (c *Collector) RecordCSV(ctx context.Context, path string) (string, error) {
	s, err := c.Usage(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return "", errors.Wrapf(err, "unable to open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", errors.Wrapf(err, "unable to stat %s", path)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return "", err
		}
	}
	ts := c.now().Format(TimestampLayout)
	record := []string{
		ts,
		strconv.FormatFloat(s.CPU, 'f', -1, 64),
		strconv.FormatFloat(s.Memory.Percent, 'f', -1, 64),
		strconv.FormatFloat(s.Disk.Percent, 'f', -1, 64),
		strconv.FormatUint(s.Network.BytesSent, 10),
		strconv.FormatUint(s.Network.BytesRecv, 10),
	}
	if err := w.Write(record); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrapf(err, "unable to write %s", path)
	}
	return ts, nil
}
