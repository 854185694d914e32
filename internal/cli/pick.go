package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/relaymesh/relaypick/internal/app"
	"github.com/relaymesh/relaypick/internal/config"
)

var (
	pickInclude []string
	pickExclude []string
	pickPrefer  []string
	pickShun    []string
	pickReject  []string
	pickRename  []string
	pickMax     int
	pickSeed    int64
	pickDryRun  bool
	pickForce   bool
	pickPrefix  string
	pickAddress string
	pickDNS     []string
	pickKey     string
	pickRules   string
	pickLevel   string
)

func init() {
	f := pickCmd.Flags()
	f.StringArrayVarP(&pickInclude, "include", "i", nil, "Admit a group, optionally with a quota (us, us:3); repeatable")
	f.StringArrayVarP(&pickExclude, "exclude", "x", nil, "Drop a country, city, region or relay; repeatable")
	f.StringArrayVar(&pickPrefer, "prefer", nil, "Raise a grouping or relay to the prefer tier; repeatable")
	f.StringArrayVar(&pickShun, "shun", nil, "Lower a grouping or relay to the shun tier; repeatable")
	f.StringArrayVar(&pickReject, "reject", nil, "Drop one relay outright; repeatable")
	f.StringArrayVar(&pickRename, "rename", nil, "Rename one relay's output (us-nyc-001=home); repeatable")
	f.IntVarP(&pickMax, "max", "n", 0, "Cap the total number of outputs (0 = no cap)")
	f.Int64Var(&pickSeed, "seed", 0, "Seed the sampler for a reproducible run")
	f.BoolVar(&pickDryRun, "dry-run", false, "Plan the run and stop before writing")
	f.BoolVarP(&pickForce, "force", "f", false, "Merge into an existing destination directory")
	f.StringVar(&pickPrefix, "prefix", "", "Output basename prefix")
	f.StringVar(&pickAddress, "address", "", "Override the interface address in every output")
	f.StringArrayVar(&pickDNS, "dns", nil, "Override the interface DNS list in every output; repeatable")
	f.StringVar(&pickKey, "private-key", "", "Override the interface private key in every output")
	f.StringVar(&pickRules, "rules", "", "Load rules from a YAML file; flags stack on top")
	f.StringVar(&pickLevel, "log-level", "", "Diagnostic level (debug, info, warn, error)")

	rootCmd.AddCommand(pickCmd)
}

var pickCmd = &cobra.Command{
	Use:   "pick SOURCE DEST",
	Short: "Select relays from SOURCE and write transformed outputs to DEST",
	Args:  cobra.ExactArgs(2),
	RunE:  runPick,
}

func runPick(cmd *cobra.Command, args []string) error {
	source, dest := args[0], args[1]

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	raw, err := assembleRequest(cmd, cfg)
	if err != nil {
		return err
	}
	req, err := app.BuildRequest(raw)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	req.DryRun = pickDryRun
	req.Force = pickForce

	level := cfg.Logging.Level
	if pickLevel != "" {
		level = pickLevel
	}
	logger := newLogger(level)
	defer logger.Sync()

	res, err := app.NewPipeline(req, logger).Run(source, dest)
	if err != nil {
		return err
	}

	if res.DryRun {
		fmt.Printf("Dry run — %d relays selected (seed %d), nothing written.\n", len(res.Outputs), req.Seed)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RELAY\tOUTPUT")
		for _, out := range res.Outputs {
			fmt.Fprintf(w, "%s\t%s\n", out.ID, out.Basename)
		}
		return w.Flush()
	}

	fmt.Printf("Wrote %d configurations to %s (seed %d)\n", res.Written, dest, req.Seed)
	return nil
}

// assembleRequest layers the request sources: tool config defaults, then the
// rules file, then explicit flags.
func assembleRequest(cmd *cobra.Command, cfg config.Config) (app.RawRequest, error) {
	base := app.RawRequest{
		Prefix:     cfg.Output.Prefix,
		Address:    cfg.Overrides.Address,
		DNS:        cfg.Overrides.DNS,
		PrivateKey: cfg.Overrides.PrivateKey,
	}

	if pickRules != "" {
		rules, err := app.LoadRules(pickRules)
		if err != nil {
			return app.RawRequest{}, err
		}
		base = app.MergeRequests(base, rules)
	}

	flags := app.RawRequest{
		Include:    pickInclude,
		Exclude:    pickExclude,
		Prefer:     pickPrefer,
		Shun:       pickShun,
		Reject:     pickReject,
		Rename:     pickRename,
		Max:        pickMax,
		Prefix:     pickPrefix,
		Address:    pickAddress,
		DNS:        pickDNS,
		PrivateKey: pickKey,
	}
	if cmd.Flags().Changed("seed") {
		seed := pickSeed
		flags.Seed = &seed
	}
	return app.MergeRequests(base, flags), nil
}
