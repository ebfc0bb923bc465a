package docker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/pkg/errors"

	"github.com/devdash-cli/devdash/internal/apierr"
)

type Image struct {
	ID       string   `json:"Id"`
	RepoTags []string `json:"RepoTags"`
	Size     int64    `json:"Size"`
}

func (c *Client) ListImages(ctx context.Context) ([]Image, error) {
	list, err := c.api.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, translate(err, "list images", "", "")
	}
	out := make([]Image, 0, len(list))
	for _, img := range list {
		out = append(out, Image{ID: img.ID, RepoTags: img.RepoTags, Size: img.Size})
	}
	return out, nil
}

// BuildImage builds the Dockerfile found in dir and tags the result. It
// returns the build output lines; a build step failure is reported as an
// UpstreamError carrying the engine message.
func (c *Client) BuildImage(ctx context.Context, dir, tag string) ([]string, error) {
	if _, err := os.Stat(filepath.Join(dir, "Dockerfile")); err != nil {
		return nil, &apierr.ConfigError{Key: "path", Hint: errors.Wrapf(err, "no Dockerfile in %s", dir).Error()}
	}
	buildCtx, err := archive.TarWithOptions(dir, &archive.TarOptions{})
	if err != nil {
		return nil, &apierr.ConfigError{Key: "path", Hint: errors.Wrap(err, "packing build context").Error()}
	}
	defer buildCtx.Close()

	res, err := c.api.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return nil, translate(err, "build image", "", "")
	}
	defer res.Body.Close()
	return readBuildStream(res.Body)
}

func readBuildStream(r io.Reader) ([]string, error) {
	var lines []string
	dec := json.NewDecoder(r)
	for {
		msg := jsonmessage.JSONMessage{}
		err := dec.Decode(&msg)
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, &apierr.ParseError{Service: service, Op: "build image", Err: err}
		}
		if failure := buildError(msg); failure != "" {
			return lines, &apierr.UpstreamError{Service: service, Op: "build image", StatusCode: http.StatusOK, Message: failure}
		}
		if s := strings.TrimRight(msg.Stream, "\n"); s != "" {
			lines = append(lines, s)
		}
	}
}

func buildError(msg jsonmessage.JSONMessage) string {
	if msg.Error != nil && msg.Error.Message != "" {
		return msg.Error.Message
	}
	return msg.ErrorMessage
}
