package config

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devdash-cli/devdash/internal/apierr"
	"github.com/devdash-cli/devdash/pkg"
	"github.com/devdash-cli/devdash/pkg/cmd/cmdutil"
)

type setOptions struct {
	githubToken string
}

func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the local devdash configuration.",
	}
	cmd.AddCommand(newCmdSet(), newCmdGet(), newCmdView())
	return cmd
}

func newCmdSet() *cobra.Command {
	o := setOptions{}
	cmd := &cobra.Command{
		Use:     "set [KEY VALUE]",
		Short:   "Set configuration values.",
		Example: "devdash config set --github-token ghp_xxx\ndevdash config set jenkins_url https://ci.example.com",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected KEY VALUE, got %d arguments", len(args))
			}
			if len(args) == 0 && o.githubToken == "" {
				return &apierr.ConfigError{Key: "github-token", Hint: "nothing to set"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.LoadStore()
			if err != nil {
				return err
			}
			if o.githubToken != "" {
				s.Set(pkg.GithubTokenKey, o.githubToken)
			}
			if len(args) == 2 {
				s.Set(args[0], args[1])
			}
			if err := s.Save(); err != nil {
				return err
			}
			log.Debugf("config saved to %s", s.Path())
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved.")
			return nil
		},
	}
	cmd.Flags().StringVar(&o.githubToken, "github-token", "", "GitHub personal access token")
	return cmd
}

func newCmdGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print a configuration value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.LoadStore()
			if err != nil {
				return err
			}
			v, ok := s.Get(args[0])
			if !ok {
				return &apierr.NotFoundError{Kind: "config key", Name: args[0]}
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newCmdView() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show every configuration value, secrets masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cmdutil.LoadStore()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", s.Path())
			tb := cmdutil.NewTable(cmd.OutOrStdout(), "Key", "Value")
			for _, k := range s.Keys() {
				v, _ := s.Get(k)
				tb.AppendRow([]interface{}{k, mask(k, v)})
			}
			tb.Render()
			return nil
		},
	}
}

// mask hides all but the last four characters of secret values.
func mask(key, value string) string {
	k := strings.ToLower(key)
	if !strings.Contains(k, "token") && !strings.Contains(k, "password") {
		return value
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
