package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	agerr "github.com/injkit/injagent/internal/errors"
	"github.com/injkit/injagent/internal/tools"
)

type toolSchema struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Args        []tools.Arg  `json:"args,omitempty"`
	Flags       []flagSchema `json:"flags,omitempty"`
}

type flagSchema struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Usage   string `json:"usage"`
	Default string `json:"default,omitempty"`
}

// newToolsCommand prints the machine-readable tool schema so a dispatch
// layer can discover names and arguments without parsing help text. Flag
// metadata comes from the live command tree, argument metadata from the
// tool registry.
func (s *runtimeState) newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print machine-readable tool schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			byName := map[string]*cobra.Command{}
			for _, sub := range cmd.Root().Commands() {
				byName[sub.Name()] = sub
			}

			schemas := make([]toolSchema, 0, len(tools.Specs()))
			for _, spec := range tools.Specs() {
				schema := toolSchema{
					Name:        spec.Name,
					Description: spec.Description,
					Args:        spec.Args,
				}
				if sub, ok := byName[spec.Name]; ok {
					schema.Flags = collectFlags(sub)
				}
				schemas = append(schemas, schema)
			}

			buf, err := json.MarshalIndent(schemas, "", "  ")
			if err != nil {
				return agerr.Wrap(agerr.CodeInternal, "render tool schema", err)
			}
			fmt.Fprintln(s.runner.stdout, string(buf))
			return nil
		},
	}
}

func collectFlags(cmd *cobra.Command) []flagSchema {
	items := []flagSchema{}
	cmd.NonInheritedFlags().VisitAll(func(f *pflag.Flag) {
		items = append(items, flagSchema{
			Name:    f.Name,
			Type:    f.Value.Type(),
			Usage:   f.Usage,
			Default: f.DefValue,
		})
	})
	return items
}
