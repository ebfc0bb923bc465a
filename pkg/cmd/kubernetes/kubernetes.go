package kubernetes

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/internal/kubernetes"
	"github.com/devdash-cli/devdash/pkg/cmd/cmdutil"
)

// Replaced in tests.
var (
	newManager = cmdutil.KubeManager
	newHelm    = kubernetes.NewHelm
)

type options struct {
	namespace  string
	replicas   int32
	match      string
	valuesFile string
	scanErrors bool
}

func NewCmdKubernetes() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:     "kubernetes",
		Aliases: []string{"k8s"},
		Short:   "Pods, deployments, services, namespaces and Helm releases.",
	}
	cmd.PersistentFlags().StringVarP(&o.namespace, "namespace", "n", kubernetes.DefaultNamespace, "Namespace")

	cmd.AddCommand(
		newCmdPods(o),
		newCmdLogs(o),
		newCmdScale(o),
		newCmdServices(o),
		newCmdCreateNamespace(o),
		newCmdDeleteNamespace(o),
		newCmdPodStats(o),
		newCmdHelmInstall(o),
		newCmdHelmUpgrade(o),
		newCmdHelmUninstall(o),
	)
	return cmd
}

func withManager(fn func(cmd *cobra.Command, m *kubernetes.Manager, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		return fn(cmd, m, args)
	}
}

func newCmdPods(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pods",
		Short: "List the pods of a namespace.",
		RunE: withManager(func(cmd *cobra.Command, m *kubernetes.Manager, args []string) error {
			pods, err := m.ListPods(cmd.Context(), o.namespace)
			if err != nil {
				return err
			}
			if len(pods) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No pods found in namespace %s.\n", o.namespace)
				return nil
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Name", "Status", "Restarts", "Node")
			for _, p := range pods {
				tb.AppendRow(table.Row{p.Name, p.Status, p.Restarts, p.Node})
			}
			tb.Render()
			return nil
		}),
	}
}

func newCmdLogs(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs POD",
		Short: "Print the logs of a pod.",
		Args:  cobra.ExactArgs(1),
		RunE: withManager(func(cmd *cobra.Command, m *kubernetes.Manager, args []string) error {
			logs, err := m.PodLogs(cmd.Context(), o.namespace, args[0])
			if err != nil {
				return err
			}
			cmdutil.PrintLogs(cmd.OutOrStdout(), "pod "+args[0], logs, o.scanErrors)
			return nil
		}),
	}
	cmdutil.AddScanErrorsFlag(cmd, &o.scanErrors)
	return cmd
}

func newCmdScale(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scale DEPLOYMENT",
		Short: "Set the replicas of a deployment.",
		Args:  cobra.ExactArgs(1),
		RunE: withManager(func(cmd *cobra.Command, m *kubernetes.Manager, args []string) error {
			if err := m.ScaleDeployment(cmd.Context(), o.namespace, args[0], o.replicas); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deployment %s scaled to %d replicas.\n", args[0], o.replicas)
			return nil
		}),
	}
	cmd.Flags().Int32Var(&o.replicas, "replicas", 1, "Desired replicas")
	_ = cmd.MarkFlagRequired("replicas")
	return cmd
}

func newCmdServices(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the services of a namespace.",
		RunE: withManager(func(cmd *cobra.Command, m *kubernetes.Manager, args []string) error {
			svcs, err := m.ListServices(cmd.Context(), o.namespace)
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Name", "Type", "Cluster IP", "Ports")
			for _, s := range svcs {
				tb.AppendRow(table.Row{s.Name, s.Type, s.ClusterIP, s.Ports})
			}
			tb.Render()
			return nil
		}),
	}
}

func newCmdCreateNamespace(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create-namespace NAME",
		Short: "Create a namespace.",
		Args:  cobra.ExactArgs(1),
		RunE: withManager(func(cmd *cobra.Command, m *kubernetes.Manager, args []string) error {
			if err := m.CreateNamespace(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Namespace %s created.\n", args[0])
			return nil
		}),
	}
}

func newCmdDeleteNamespace(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-namespace [NAME]",
		Short: "Delete a namespace, or every namespace matching --match.",
		Args:  cobra.MaximumNArgs(1),
		RunE: withManager(func(cmd *cobra.Command, m *kubernetes.Manager, args []string) error {
			if o.match != "" {
				deleted, err := m.DeleteNamespacesMatching(cmd.Context(), o.match)
				for _, ns := range deleted {
					fmt.Fprintf(cmd.OutOrStdout(), "Namespace %s deleted.\n", ns)
				}
				if err != nil {
					return err
				}
				if len(deleted) == 0 {
					log.Infof("no namespace matches %q", o.match)
				}
				return nil
			}
			if len(args) == 0 {
				return &apierr.ConfigError{Key: "name", Hint: "namespace name or --match is required"}
			}
			if err := m.DeleteNamespace(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Namespace %s deleted.\n", args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&o.match, "match", "", "Delete every namespace whose name matches this regular expression")
	return cmd
}

func newCmdPodStats(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pod-stats POD",
		Short: "Show the CPU and memory usage of a pod (requires metrics-server).",
		Args:  cobra.ExactArgs(1),
		RunE: withManager(func(cmd *cobra.Command, m *kubernetes.Manager, args []string) error {
			usage, err := m.PodStats(cmd.Context(), o.namespace, args[0])
			if err != nil {
				return err
			}
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Container", "CPU", "Memory")
			for _, c := range usage {
				tb.AppendRow(table.Row{c.Name, c.CPU(), c.Memory()})
			}
			tb.Render()
			return nil
		}),
	}
}

func newCmdHelmInstall(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helm-install RELEASE CHART",
		Short: "Install a Helm chart.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newHelm().Install(cmd.Context(), args[0], args[1], o.namespace, o.valuesFile)
			fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&o.valuesFile, "values", "f", "", "Values file")
	return cmd
}

func newCmdHelmUpgrade(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helm-upgrade RELEASE CHART",
		Short: "Upgrade a Helm release.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newHelm().Upgrade(cmd.Context(), args[0], args[1], o.namespace, o.valuesFile)
			fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&o.valuesFile, "values", "f", "", "Values file")
	return cmd
}

func newCmdHelmUninstall(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "helm-uninstall RELEASE",
		Short: "Uninstall a Helm release.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newHelm().Uninstall(cmd.Context(), args[0], o.namespace)
			fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}
