package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/pkg/errors"

	"github.com/devdash-cli/devdash/internal/apierr"
)

type Container struct {
	ID     string   `json:"Id"`
	Names  []string `json:"Names"`
	Image  string   `json:"Image"`
	State  string   `json:"State"`
	Status string   `json:"Status"`
}

// ShortID is the 12 character id shown by the docker CLI.
func (c Container) ShortID() string {
	if len(c.ID) > 12 {
		return c.ID[:12]
	}
	return c.ID
}

// Name returns the primary name without the leading slash.
func (c Container) Name() string {
	if len(c.Names) == 0 {
		return ""
	}
	return strings.TrimPrefix(c.Names[0], "/")
}

// Stats is the one-shot resource usage snapshot of a container.
type Stats struct {
	CPUStats struct {
		CPUUsage struct {
			TotalUsage uint64 `json:"total_usage"`
		} `json:"cpu_usage"`
	} `json:"cpu_stats"`
	MemoryStats struct {
		Usage uint64 `json:"usage"`
		Limit uint64 `json:"limit"`
	} `json:"memory_stats"`
	BlkioStats struct {
		IOServiceBytesRecursive []BlkioEntry `json:"io_service_bytes_recursive"`
	} `json:"blkio_stats"`
	Networks map[string]NetworkStats `json:"networks"`
}

type BlkioEntry struct {
	Major uint64 `json:"major"`
	Minor uint64 `json:"minor"`
	Op    string `json:"op"`
	Value uint64 `json:"value"`
}

type NetworkStats struct {
	RxBytes uint64 `json:"rx_bytes"`
	TxBytes uint64 `json:"tx_bytes"`
}

// ListContainers lists running containers, or every container when all is set.
func (c *Client) ListContainers(ctx context.Context, all bool) ([]Container, error) {
	list, err := c.api.ContainerList(ctx, container.ListOptions{All: all})
	if err != nil {
		return nil, translate(err, "list containers", "", "")
	}
	out := make([]Container, 0, len(list))
	for _, ct := range list {
		out = append(out, Container{ID: ct.ID, Names: ct.Names, Image: ct.Image, State: ct.State, Status: ct.Status})
	}
	return out, nil
}

// Logs returns stdout and stderr of a container, demultiplexed.
func (c *Client) Logs(ctx context.Context, id string) (string, error) {
	rc, err := c.api.ContainerLogs(ctx, id, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", translate(err, "fetch logs for container "+id, "container", id)
	}
	defer rc.Close()
	return readStream(rc, "fetch logs for container "+id)
}

// Start starts a stopped container. Starting a running one is not an error.
func (c *Client) Start(ctx context.Context, id string) error {
	err := c.api.ContainerStart(ctx, id, container.StartOptions{})
	return translate(err, "start container "+id, "container", id)
}

// Stop stops a running container.
func (c *Client) Stop(ctx context.Context, id string) error {
	err := c.api.ContainerStop(ctx, id, container.StopOptions{})
	return translate(err, "stop container "+id, "container", id)
}

// ContainerStats takes a single stats sample.
func (c *Client) ContainerStats(ctx context.Context, id string) (*Stats, error) {
	op := "fetch stats for container " + id
	res, err := c.api.ContainerStatsOneShot(ctx, id)
	if err != nil {
		return nil, translate(err, op, "container", id)
	}
	defer res.Body.Close()
	out := &Stats{}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return nil, &apierr.ParseError{Service: service, Op: op, Err: err}
	}
	return out, nil
}

// Exec runs command through /bin/sh -c inside a running container and returns
// its combined output.
func (c *Client) Exec(ctx context.Context, id, command string) (string, error) {
	created, err := c.api.ContainerExecCreate(ctx, id, container.ExecOptions{
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          []string{"/bin/sh", "-c", command},
	})
	if err != nil {
		return "", translate(err, "create exec in container "+id, "container", id)
	}
	if created.ID == "" {
		return "", &apierr.ParseError{Service: service, Op: "create exec in container " + id, Err: errors.New("exec instance without id")}
	}

	op := "execute command in container " + id
	attached, err := c.api.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return "", translate(err, op, "", "")
	}
	defer attached.Close()
	return readStream(attached.Reader, op)
}

// readStream demultiplexes an attached stream. Containers running with a TTY
// send raw output, which is returned as is.
func readStream(r io.Reader, op string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", &apierr.TransportError{Service: service, Op: op, Err: err}
	}
	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, &out, bytes.NewReader(raw)); err != nil || out.Len() == 0 {
		return string(raw), nil
	}
	return out.String(), nil
}

// CPUTotal is the cumulative CPU time counter used as the docker metric.
func (s *Stats) CPUTotal() uint64 {
	return s.CPUStats.CPUUsage.TotalUsage
}

func (s *Stats) String() string {
	return fmt.Sprintf("cpu=%d mem=%d/%d", s.CPUTotal(), s.MemoryStats.Usage, s.MemoryStats.Limit)
}
