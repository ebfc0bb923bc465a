package github

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/devdash-cli/devdash/internal/apierr"
)

const pushEventType = "PushEvent"

// PushEvent is a push to a branch of the repository.
type PushEvent struct {
	Pusher string
	Size   int
	Branch string
}

type pushPayload struct {
	Ref  string `json:"ref"`
	Size int    `json:"size"`
}

// PushEvents lists the push events among the latest repository events.
func (c *Client) PushEvents(ctx context.Context) ([]PushEvent, error) {
	opts := perPage()
	events, resp, err := c.api.Activity.ListRepositoryEvents(withContext(ctx), c.owner, c.name, &opts)
	if err := translate("fetch push events", resp, err); err != nil {
		return nil, err
	}

	out := []PushEvent{}
	for _, ev := range events {
		if ev.GetType() != pushEventType {
			continue
		}
		p := pushPayload{}
		if ev.RawPayload != nil {
			if err := json.Unmarshal(*ev.RawPayload, &p); err != nil {
				return nil, &apierr.ParseError{Service: service, Op: "fetch push events", Err: err}
			}
		}
		out = append(out, PushEvent{
			Pusher: ev.GetActor().GetLogin(),
			Size:   p.Size,
			Branch: strings.TrimPrefix(p.Ref, "refs/heads/"),
		})
	}
	return out, nil
}
