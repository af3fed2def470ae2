package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
	"golang.org/x/term"

	"github.com/newtron-network/newtask/pkg/audit"
	"github.com/newtron-network/newtask/pkg/cli"
	"github.com/newtron-network/newtask/pkg/intent"
	"github.com/newtron-network/newtask/pkg/playbook"
	"github.com/newtron-network/newtask/pkg/settings"
	"github.com/newtron-network/newtask/pkg/util"
)

// buildOptions holds the build command's flags.
type buildOptions struct {
	intentFile    string
	output        string
	redisAddr     string
	redisPassword string
	redisDB       int
	redisKey      string
	redisTTL      time.Duration
	hosts         []string
	user          string
	askPass       bool
	privateKey    string
	dryRun        bool
}

var buildOpts buildOptions

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a playbook from an intent file",
	Long: `Build a playbook from an intent file.

Every task is validated and committed before anything is written. With
--dry-run the playbook is rendered and checked but not written.

Connection variables are filled from flags, then NEWTASK_* environment
variables, then ~/.newtask/settings.json. Variables set in the intent file
are kept unless a flag overrides them.

Examples:
  newtask build -f leaf1.yaml                        # writes ./leaf1.yml
  newtask build -f leaf1.yaml -o - --dry-run
  newtask build -f leaf1.yaml --host leaf1 --host leaf2 --user admin --ask-pass
  newtask build -f leaf1.yaml --private-key ~/.ssh/id_ed25519
  newtask build -f leaf1.yaml --redis-addr localhost:6379 --redis-key playbooks:leaf1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), buildOpts, userSettings)
	},
}

func init() {
	f := buildCmd.Flags()
	f.StringVarP(&buildOpts.intentFile, "file", "f", "", "Intent file (required)")
	f.StringVarP(&buildOpts.output, "output", "o", "", "Output playbook path, or - for stdout")
	f.StringVar(&buildOpts.redisAddr, "redis-addr", "", "Write the playbook to Redis at host:port")
	f.StringVar(&buildOpts.redisPassword, "redis-password", "", "Redis password")
	f.IntVar(&buildOpts.redisDB, "redis-db", 0, "Redis database number")
	f.StringVar(&buildOpts.redisKey, "redis-key", "", "Redis key for the playbook")
	f.DurationVar(&buildOpts.redisTTL, "redis-ttl", 0, "Redis key expiry (0 keeps the key)")
	f.StringArrayVar(&buildOpts.hosts, "host", nil, "Target host or group (repeatable, or comma-separated)")
	f.StringVar(&buildOpts.user, "user", "", "Connection user (ansible_user)")
	f.BoolVar(&buildOpts.askPass, "ask-pass", false, "Prompt for the connection password")
	f.StringVar(&buildOpts.privateKey, "private-key", "", "SSH private key file (ansible_ssh_private_key_file)")
	f.BoolVar(&buildOpts.dryRun, "dry-run", false, "Render and validate without writing")
	buildCmd.MarkFlagRequired("file")
}

func runBuild(ctx context.Context, opts buildOptions, s *settings.Settings) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s == nil {
		s = &settings.Settings{}
	}
	start := time.Now()

	op := audit.EventTypeBuild
	if opts.dryRun {
		op = audit.EventTypeValidate
	}
	event := audit.NewEvent(currentUser(), "", op).WithIntent(opts.intentFile)
	defer func() {
		event.WithDuration(time.Since(start))
		if err != nil {
			event.WithError(err)
		} else {
			event.WithSuccess()
		}
		if lerr := audit.Log(event); lerr != nil {
			util.Warnf("Could not write audit event: %v", lerr)
		}
	}()

	f, err := intent.Load(opts.intentFile)
	if err != nil {
		return err
	}
	event.Playbook = f.Name
	util.Debugf("Loaded intent %s: %d tasks", opts.intentFile, len(f.Tasks))

	p, err := intent.Build(f)
	if err != nil {
		return err
	}
	event.Playbook = p.Name()

	for _, flag := range opts.hosts {
		for _, h := range util.SplitCommaSeparated(flag) {
			if err := p.AddHost(h); err != nil {
				return err
			}
		}
	}
	if opts.askPass {
		pass, err := promptPassword()
		if err != nil {
			return err
		}
		if err := p.AddVar(playbook.VarPassword, pass); err != nil {
			return err
		}
	}
	if err := applyConnection(p, s, opts); err != nil {
		return err
	}
	event.WithHosts(p.Hosts()).WithTasks(p.Tasks())

	if opts.dryRun {
		data, err := p.Render()
		if err != nil {
			return err
		}
		if opts.output == "-" {
			fmt.Print(string(data))
			return nil
		}
		printSummary(os.Stdout, p)
		fmt.Println(yellow("DRY-RUN: playbook not written."))
		return nil
	}

	sink, closeSink, err := resolveSink(opts, s, opts.intentFile)
	if err != nil {
		return err
	}
	defer closeSink()
	event.WithSink(sink.String())

	if err := p.Write(ctx, sink); err != nil {
		return err
	}
	if opts.output != "-" {
		fmt.Printf("%s %s (%d tasks)\n", green("Wrote"), sink, len(p.Tasks()))
	}
	return nil
}

// printSummary lists the play's tasks with dot leaders.
func printSummary(w io.Writer, p *playbook.Playbook) {
	fmt.Fprintf(w, "%s: %d tasks for %s\n", bold(p.Name()), len(p.Tasks()), strings.Join(p.Hosts(), ", "))
	for _, t := range p.Tasks() {
		name := t.Name
		if name == "" {
			name = dim("(unnamed)")
		}
		fmt.Fprintf(w, "  %s %s\n", cli.DotPad(t.Module, 48), name)
	}
}

// applyConnection fills the connection variables. Flags replace intent
// values; settings only fill what the intent left unset.
func applyConnection(p *playbook.Playbook, s *settings.Settings, opts buildOptions) error {
	defaults := []struct{ key, value string }{
		{playbook.VarConnection, s.GetConnection()},
		{playbook.VarNetworkOS, s.GetNetworkOS()},
		{playbook.VarUser, s.User},
	}
	for _, d := range defaults {
		if d.value == "" || p.HasVar(d.key) {
			continue
		}
		if err := p.AddVar(d.key, d.value); err != nil {
			return err
		}
	}

	if opts.user != "" {
		if err := p.AddVar(playbook.VarUser, opts.user); err != nil {
			return err
		}
	}
	if opts.privateKey != "" {
		if err := checkPrivateKey(opts.privateKey); err != nil {
			return err
		}
		if err := p.AddVar(playbook.VarPrivateKey, opts.privateKey); err != nil {
			return err
		}
	}
	return nil
}

// checkPrivateKey verifies path holds a parseable SSH private key.
// Passphrase-protected keys are accepted; Ansible prompts for them.
func checkPrivateKey(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading private key: %w", err)
	}
	if _, err := ssh.ParsePrivateKey(data); err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil
		}
		return fmt.Errorf("private key %s: %w", path, err)
	}
	return nil
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--ask-pass requires a terminal")
	}
	fmt.Fprint(os.Stderr, "Connection password: ")
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pass), nil
}

// resolveSink picks the output target. The returned func releases any
// client the sink holds.
func resolveSink(opts buildOptions, s *settings.Settings, intentFile string) (playbook.Sink, func() error, error) {
	noop := func() error { return nil }

	if opts.redisAddr != "" || opts.redisKey != "" {
		if opts.output != "" {
			return nil, nil, fmt.Errorf("%w: -o and --redis-* are mutually exclusive", util.ErrInvalidConfig)
		}
		if opts.redisAddr == "" || opts.redisKey == "" {
			return nil, nil, fmt.Errorf("%w: --redis-addr and --redis-key go together", util.ErrInvalidConfig)
		}
		rs := playbook.NewRedisSink(opts.redisAddr, opts.redisPassword, opts.redisDB, opts.redisKey, opts.redisTTL)
		return rs, rs.Close, nil
	}

	if opts.output == "-" {
		return playbook.WriterSink{W: os.Stdout, Name: "stdout"}, noop, nil
	}
	return playbook.FileSink{Path: outputPath(opts.output, s.GetOutputDir(), intentFile)}, noop, nil
}

// outputPath resolves -o. Bare file names go under dir; an empty -o derives
// the name from the intent file.
func outputPath(output, dir, intentFile string) string {
	if output == "" {
		base := filepath.Base(intentFile)
		output = strings.TrimSuffix(base, filepath.Ext(base)) + ".yml"
	}
	if filepath.IsAbs(output) || strings.ContainsRune(output, filepath.Separator) {
		return output
	}
	return filepath.Join(dir, output)
}
