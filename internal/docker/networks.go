package docker

import (
	"context"
	"time"

	"github.com/docker/docker/api/types/network"
)

type Network struct {
	ID         string              `json:"Id"`
	Name       string              `json:"Name"`
	Driver     string              `json:"Driver"`
	Scope      string              `json:"Scope"`
	Internal   bool                `json:"Internal"`
	Created    string              `json:"Created"`
	Labels     map[string]string   `json:"Labels"`
	Containers map[string]Endpoint `json:"Containers"`
}

// Endpoint is a container attached to a network.
type Endpoint struct {
	Name        string `json:"Name"`
	IPv4Address string `json:"IPv4Address"`
}

func fromNetwork(n network.Inspect) *Network {
	out := &Network{
		ID:       n.ID,
		Name:     n.Name,
		Driver:   n.Driver,
		Scope:    n.Scope,
		Internal: n.Internal,
		Labels:   n.Labels,
	}
	if !n.Created.IsZero() {
		out.Created = n.Created.Format(time.RFC3339)
	}
	if len(n.Containers) > 0 {
		out.Containers = make(map[string]Endpoint, len(n.Containers))
		for id, ep := range n.Containers {
			out.Containers[id] = Endpoint{Name: ep.Name, IPv4Address: ep.IPv4Address}
		}
	}
	return out
}

func (c *Client) ListNetworks(ctx context.Context) ([]Network, error) {
	list, err := c.api.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return nil, translate(err, "list networks", "", "")
	}
	out := make([]Network, 0, len(list))
	for _, n := range list {
		out = append(out, *fromNetwork(n))
	}
	return out, nil
}

// CreateNetwork creates a bridge network and returns its id.
func (c *Client) CreateNetwork(ctx context.Context, name string) (string, error) {
	res, err := c.api.NetworkCreate(ctx, name, network.CreateOptions{Driver: "bridge"})
	if err != nil {
		return "", translate(err, "create network "+name, "", "")
	}
	return res.ID, nil
}

func (c *Client) RemoveNetwork(ctx context.Context, name string) error {
	return translate(c.api.NetworkRemove(ctx, name), "remove network "+name, "network", name)
}

func (c *Client) InspectNetwork(ctx context.Context, name string) (*Network, error) {
	n, err := c.api.NetworkInspect(ctx, name, network.InspectOptions{})
	if err != nil {
		return nil, translate(err, "inspect network "+name, "network", name)
	}
	return fromNetwork(n), nil
}
