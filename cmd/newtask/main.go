// Newtask - Ansible playbook builder for NX-OS and Spirent test automation
//
// Intent files describe the play and its tasks by catalog module key. newtask
// runs every task through its validating builder and writes the playbook to a
// file, stdout or Redis:
//
//	newtask build -f leaf1.yaml -o leaf1.yml
//	newtask build -f leaf1.yaml -o - --host leaf1 --user admin --ask-pass
//	newtask build -f leaf1.yaml --redis-addr localhost:6379 --redis-key playbooks:leaf1
//	newtask modules                # registered module keys
//	newtask fields nxos_vlans      # a module's properties
//	newtask audit --failures       # recent failed builds
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/newtron-network/newtask/pkg/audit"
	"github.com/newtron-network/newtask/pkg/cli"
	"github.com/newtron-network/newtask/pkg/settings"
	"github.com/newtron-network/newtask/pkg/util"
	"github.com/newtron-network/newtask/pkg/version"
)

var (
	// Global option flags
	verbose    bool
	logJSON    bool
	noColor    bool
	jsonOutput bool

	// Global state
	userSettings *settings.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error:"), err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "newtask",
	Short:             "Ansible playbook builder",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Newtask builds Ansible playbooks from intent files.

Every property is checked against its module's schema as it is set;
a task that fails validation aborts the build and nothing is written.

  newtask build -f <intent.yaml> [-o <playbook.yml>|-]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set log level: quiet by default, verbose on -v
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}
		if logJSON {
			util.SetJSONFormat()
		}
		cli.SetColor(!noColor && cli.ColorFor(os.Stdout))

		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}
		if isSettingsOrHelp(cmd) {
			return nil
		}
		if err := userSettings.ApplyEnv(); err != nil {
			return fmt.Errorf("reading NEWTASK_* environment: %w", err)
		}

		auditLogger, err := audit.NewFileLogger(userSettings.GetAuditLog(), audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 10,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "build", Title: "Playbook Operations:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{buildCmd, modulesCmd, fieldsCmd} {
		cmd.GroupID = "build"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{modulesCmd, fieldsCmd, auditCmd} {
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "JSON output")
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Line("newtask"))
	},
}

func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings":
			return true
		}
	}
	return false
}

// currentUser names the operator in audit events.
func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
func bold(s string) string   { return cli.Bold(s) }
func dim(s string) string    { return cli.Dim(s) }
