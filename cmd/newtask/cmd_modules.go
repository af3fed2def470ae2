package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/newtask/pkg/catalog"
	"github.com/newtron-network/newtask/pkg/cli"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List registered modules",
	Long: `List the module keys accepted in intent files.

Examples:
  newtask modules
  newtask modules --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listModules(os.Stdout, jsonOutput)
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields <module>",
	Short: "Show a module's properties",
	Long: `Show the properties a module accepts, the level each belongs to and
the values it expects.

Examples:
  newtask fields nxos_interface
  newtask fields nxos_bgp_neighbor_address_family`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showFields(os.Stdout, args[0], jsonOutput)
	},
}

// moduleView is the JSON form of a catalog entry.
type moduleView struct {
	Key    string   `json:"key"`
	Module string   `json:"module"`
	Policy string   `json:"after_commit"`
	Ops    []string `json:"add_ops,omitempty"`
}

// fieldView is the JSON form of a schema field.
type fieldView struct {
	Name     string `json:"name"`
	Key      string `json:"key"`
	Level    string `json:"level"`
	Required bool   `json:"required"`
	Expect   string `json:"expect"`
}

func listModules(w io.Writer, asJSON bool) error {
	entries := catalog.Entries()
	if asJSON {
		views := make([]moduleView, 0, len(entries))
		for _, e := range entries {
			views = append(views, moduleView{Key: e.Key, Module: e.Module, Policy: e.Policy.String(), Ops: e.Ops})
		}
		return json.NewEncoder(w).Encode(views)
	}

	t := cli.NewTableTo(w, "KEY", "MODULE", "AFTER COMMIT", "ADD")
	for _, e := range entries {
		ops := "-"
		if len(e.Ops) > 0 {
			ops = strings.Join(e.Ops, ", ")
		}
		t.Row(e.Key, e.Module, e.Policy.String(), ops)
	}
	t.Flush()
	return nil
}

func showFields(w io.Writer, key string, asJSON bool) error {
	entry, err := catalog.Lookup(key)
	if err != nil {
		return err
	}
	fields := entry.New().Schema().Fields()

	if asJSON {
		views := make([]fieldView, 0, len(fields))
		for _, f := range fields {
			views = append(views, fieldView{
				Name:     f.Name,
				Key:      f.OutputKey(),
				Level:    f.Level.String(),
				Required: f.Required,
				Expect:   f.Check.Expect,
			})
		}
		return json.NewEncoder(w).Encode(views)
	}

	fmt.Fprintf(w, "%s (%s)\n\n", bold(entry.Key), entry.Module)
	t := cli.NewTableTo(w, "FIELD", "LEVEL", "REQUIRED", "EXPECTS")
	for _, f := range fields {
		name := f.Name
		if f.OutputKey() != f.Name {
			name += " (as " + f.OutputKey() + ")"
		}
		req := ""
		if f.Required {
			req = "yes"
		}
		t.Row(name, f.Level.String(), req, f.Check.Expect)
	}
	t.Flush()
	return nil
}
