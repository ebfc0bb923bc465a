package docker

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/devdash-cli/devdash/internal/docker"
	"github.com/devdash-cli/devdash/pkg/cmd/cmdutil"
)

func NewCmdDocker() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docker",
		Short: "Containers, volumes, networks and images of the local Docker engine.",
	}
	cmd.AddCommand(
		newCmdContainers(),
		newCmdLogs(),
		newCmdStart(),
		newCmdStop(),
		newCmdStats(),
		newCmdExec(),
		newCmdVolumes(),
		newCmdVolumeCreate(),
		newCmdVolumeRemove(),
		newCmdVolumeInspect(),
		newCmdNetworks(),
		newCmdNetworkCreate(),
		newCmdNetworkRemove(),
		newCmdNetworkInspect(),
		newCmdImages(),
		newCmdBuild(),
	)
	return cmd
}

// withClient wraps a RunE body with the engine client.
func withClient(fn func(cmd *cobra.Command, c *docker.Client, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := docker.NewClient()
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(cmd, c, args)
	}
}

func printYAML(w io.Writer, v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "unable to encode output")
	}
	_, err = w.Write(b)
	return err
}

func newCmdContainers() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "containers",
		Short: "List containers.",
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			containers, err := c.ListContainers(cmd.Context(), all)
			if err != nil {
				return err
			}
			if len(containers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No containers found.")
				return nil
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "ID", "Name", "Image", "State", "Status")
			for _, ct := range containers {
				tb.AppendRow(table.Row{ct.ShortID(), ct.Name(), ct.Image, ct.State, ct.Status})
			}
			tb.Render()
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include stopped containers")
	return cmd
}

func newCmdLogs() *cobra.Command {
	var scan bool
	cmd := &cobra.Command{
		Use:   "logs CONTAINER",
		Short: "Print the logs of a container.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			logs, err := c.Logs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmdutil.PrintLogs(cmd.OutOrStdout(), "container "+args[0], logs, scan)
			return nil
		}),
	}
	cmdutil.AddScanErrorsFlag(cmd, &scan)
	return cmd
}

func newCmdStart() *cobra.Command {
	return &cobra.Command{
		Use:   "start CONTAINER",
		Short: "Start a container.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			if err := c.Start(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Container %s started.\n", args[0])
			return nil
		}),
	}
}

func newCmdStop() *cobra.Command {
	return &cobra.Command{
		Use:   "stop CONTAINER",
		Short: "Stop a container.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			if err := c.Stop(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Container %s stopped.\n", args[0])
			return nil
		}),
	}
}

func newCmdStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats CONTAINER",
		Short: "Show a resource usage snapshot of a container.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			s, err := c.ContainerStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Container", "CPU Total", "Memory Usage", "Memory Limit")
			tb.AppendRow(table.Row{args[0], s.CPUTotal(), s.MemoryStats.Usage, s.MemoryStats.Limit})
			tb.Render()
			return nil
		}),
	}
}

func newCmdExec() *cobra.Command {
	return &cobra.Command{
		Use:   "exec CONTAINER COMMAND...",
		Short: "Run a command in a running container.",
		Args:  cobra.MinimumNArgs(2),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			out, err := c.Exec(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}),
	}
}

func newCmdVolumes() *cobra.Command {
	return &cobra.Command{
		Use:   "volumes",
		Short: "List volumes.",
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			volumes, err := c.ListVolumes(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Name", "Driver", "Mountpoint")
			for _, v := range volumes {
				tb.AppendRow(table.Row{v.Name, v.Driver, v.Mountpoint})
			}
			tb.Render()
			return nil
		}),
	}
}

func newCmdVolumeCreate() *cobra.Command {
	return &cobra.Command{
		Use:   "volume-create NAME",
		Short: "Create a volume.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			v, err := c.CreateVolume(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Volume %s created.\n", v.Name)
			return nil
		}),
	}
}

func newCmdVolumeRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "volume-remove NAME",
		Short: "Remove a volume.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			if err := c.RemoveVolume(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Volume %s removed.\n", args[0])
			return nil
		}),
	}
}

func newCmdVolumeInspect() *cobra.Command {
	return &cobra.Command{
		Use:   "volume-inspect NAME",
		Short: "Show the details of a volume.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			v, err := c.InspectVolume(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), v)
		}),
	}
}

func newCmdNetworks() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List networks.",
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			networks, err := c.ListNetworks(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "ID", "Name", "Driver", "Scope")
			for _, n := range networks {
				id := n.ID
				if len(id) > 12 {
					id = id[:12]
				}
				tb.AppendRow(table.Row{id, n.Name, n.Driver, n.Scope})
			}
			tb.Render()
			return nil
		}),
	}
}

func newCmdNetworkCreate() *cobra.Command {
	return &cobra.Command{
		Use:   "network-create NAME",
		Short: "Create a network.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			id, err := c.CreateNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Network %s created (%s).\n", args[0], id)
			return nil
		}),
	}
}

func newCmdNetworkRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "network-remove NAME",
		Short: "Remove a network.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			if err := c.RemoveNetwork(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Network %s removed.\n", args[0])
			return nil
		}),
	}
}

func newCmdNetworkInspect() *cobra.Command {
	return &cobra.Command{
		Use:   "network-inspect NAME",
		Short: "Show the details of a network.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			n, err := c.InspectNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), n)
		}),
	}
}

func newCmdImages() *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "List images.",
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			images, err := c.ListImages(cmd.Context())
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "ID", "Tags", "Size (MB)")
			for _, img := range images {
				id := strings.TrimPrefix(img.ID, "sha256:")
				if len(id) > 12 {
					id = id[:12]
				}
				tb.AppendRow(table.Row{id, strings.Join(img.RepoTags, ", "), fmt.Sprintf("%.1f", float64(img.Size)/1e6)})
			}
			tb.Render()
			return nil
		}),
	}
}

func newCmdBuild() *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "build DIR",
		Short: "Build an image from a directory containing a Dockerfile.",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *docker.Client, args []string) error {
			lines, err := c.BuildImage(cmd.Context(), args[0], tag)
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Image %s built.\n", tag)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Image tag")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}
