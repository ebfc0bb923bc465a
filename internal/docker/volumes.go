package docker

import (
	"context"

	"github.com/docker/docker/api/types/volume"
)

type Volume struct {
	Name       string            `json:"Name"`
	Driver     string            `json:"Driver"`
	Mountpoint string            `json:"Mountpoint"`
	CreatedAt  string            `json:"CreatedAt"`
	Scope      string            `json:"Scope"`
	Labels     map[string]string `json:"Labels"`
	Options    map[string]string `json:"Options"`
}

func fromVolume(v volume.Volume) *Volume {
	return &Volume{
		Name:       v.Name,
		Driver:     v.Driver,
		Mountpoint: v.Mountpoint,
		CreatedAt:  v.CreatedAt,
		Scope:      v.Scope,
		Labels:     v.Labels,
		Options:    v.Options,
	}
}

func (c *Client) ListVolumes(ctx context.Context) ([]Volume, error) {
	res, err := c.api.VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		return nil, translate(err, "list volumes", "", "")
	}
	out := make([]Volume, 0, len(res.Volumes))
	for _, v := range res.Volumes {
		if v != nil {
			out = append(out, *fromVolume(*v))
		}
	}
	return out, nil
}

func (c *Client) CreateVolume(ctx context.Context, name string) (*Volume, error) {
	v, err := c.api.VolumeCreate(ctx, volume.CreateOptions{Name: name})
	if err != nil {
		return nil, translate(err, "create volume "+name, "", "")
	}
	return fromVolume(v), nil
}

func (c *Client) RemoveVolume(ctx context.Context, name string) error {
	return translate(c.api.VolumeRemove(ctx, name, false), "remove volume "+name, "volume", name)
}

func (c *Client) InspectVolume(ctx context.Context, name string) (*Volume, error) {
	v, err := c.api.VolumeInspect(ctx, name)
	if err != nil {
		return nil, translate(err, "inspect volume "+name, "volume", name)
	}
	return fromVolume(v), nil
}
