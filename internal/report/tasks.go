package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/devdash-cli/devdash/internal/apierr"
)

// Integration names the source adapter a task is dispatched to.
type Integration string

const (
	IntegrationGithub     Integration = "github"
	IntegrationCI         Integration = "ci"
	IntegrationDocker     Integration = "docker"
	IntegrationSystem     Integration = "system"
	IntegrationKubernetes Integration = "kubernetes"
)

// Params are the scalar parameters of a task, stringified.
type Params map[string]string

// Get returns the value of key or def when unset.
func (p Params) Get(key, def string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return def
}

// Require returns the value of key or a ConfigError naming it.
func (p Params) Require(key string) (string, error) {
	v := p.Get(key, "")
	if v == "" {
		return "", &apierr.ConfigError{Key: key, Hint: "required task parameter"}
	}
	return v, nil
}

func (p Params) Bool(key string) bool {
	b, _ := strconv.ParseBool(p.Get(key, "false"))
	return b
}

// TaskSpec is one entry of a batch report.
type TaskSpec struct {
	Integration Integration
	Task        string
	Params      Params
}

func (t TaskSpec) String() string {
	return fmt.Sprintf("%s/%s", t.Integration, t.Task)
}

type batchFile struct {
	Commands []yaml.MapSlice `yaml:"commands"`
}

// ParseTasks reads a batch file:
//
//	commands:
//	  - github:
//	      pr:
//	        repo: owner/name
//	  - system:
//	      cpu_usage:
//
// Tasks are returned in file order. Integration names are not validated
// here: unknown integrations become error rows at run time.
func ParseTasks(r io.Reader) ([]TaskSpec, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read batch file")
	}
	doc := batchFile{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &apierr.ConfigError{Key: "commands", Hint: "invalid batch file: " + err.Error()}
	}

	var specs []TaskSpec
	for i, cmd := range doc.Commands {
		for _, integ := range cmd {
			name, ok := integ.Key.(string)
			if !ok {
				return nil, &apierr.ConfigError{Key: "commands", Hint: fmt.Sprintf("entry %d: integration name must be a string", i)}
			}
			tasks, err := toMapSlice(integ.Value)
			if err != nil {
				return nil, &apierr.ConfigError{Key: name, Hint: fmt.Sprintf("entry %d: %v", i, err)}
			}
			for _, task := range tasks {
				taskName := fmt.Sprint(task.Key)
				params, err := toParams(task.Value)
				if err != nil {
					return nil, &apierr.ConfigError{Key: name + "." + taskName, Hint: err.Error()}
				}
				specs = append(specs, TaskSpec{
					Integration: Integration(strings.ToLower(name)),
					Task:        taskName,
					Params:      params,
				})
			}
		}
	}
	return specs, nil
}

func toMapSlice(v interface{}) (yaml.MapSlice, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case yaml.MapSlice:
		return t, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", v)
	}
}

func toParams(v interface{}) (Params, error) {
	ms, err := toMapSlice(v)
	if err != nil {
		return nil, err
	}
	params := make(Params, len(ms))
	for _, kv := range ms {
		switch val := kv.Value.(type) {
		case nil:
			params[fmt.Sprint(kv.Key)] = ""
		case yaml.MapSlice, []interface{}:
			return nil, fmt.Errorf("parameter %v must be a scalar", kv.Key)
		default:
			params[fmt.Sprint(kv.Key)] = fmt.Sprint(val)
		}
	}
	return params, nil
}
