package cmd

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rustyeddy/riskdash/config"
	"github.com/rustyeddy/riskdash/dash"
	"github.com/rustyeddy/riskdash/feed"
	"github.com/rustyeddy/riskdash/journal"
	"github.com/rustyeddy/riskdash/risk"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dashboard against a mock tick feed",
	Long: `Run the dashboard core with a built-in mock feed that opens positions
and walks their prices, rendering each snapshot as plain text.

Example:
  riskdash run -f dashboard.yaml --ticks 120 --demo-kill`,
	RunE: runRun,
}

var (
	runConfigPath string
	runTicks      int
	runSeed       int64
	runDemoKill   bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().IntVar(&runTicks, "ticks", 0, "stop after this many ticks (0 = run until interrupted)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "mock feed RNG seed (0 = time-based)")
	runCmd.Flags().BoolVar(&runDemoKill, "demo-kill", false, "hold-to-kill the oldest position once ten ticks in")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var j journal.Journal
	switch cfg.Journal.Type {
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.ClosesFile, cfg.Journal.EquityFile)
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	hold, _ := cfg.Gate.ParseHoldDuration()
	step, _ := cfg.Gate.ParseStepInterval()

	d, err := dash.New(dash.Options{
		TickMinutes:   cfg.Dashboard.TickMinutes,
		RingCapacity:  cfg.Dashboard.RingCapacity,
		HistoryLength: cfg.Dashboard.HistoryLength,
		Policy: risk.Policy{
			MaxPositionDrawdown: cfg.Risk.MaxPositionDrawdown,
			MaxPositionSize:     cfg.Risk.MaxPositionSize,
		},
		QuotaMax:           cfg.Risk.QuotaMax,
		MemTotalMB:         cfg.Risk.MemTotalMB,
		LatencyThresholdMS: cfg.Risk.LatencyThresholdMS,
		HoldDuration:       hold,
		HoldStep:           step,
		Journal:            j,
	})
	if err != nil {
		return fmt.Errorf("create dashboard: %w", err)
	}
	defer d.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ticks := 0
	unsubscribe := d.Subscribe(func(s dash.Snapshot) {
		ticks++
		render(s, ticks)

		if runDemoKill && ticks == 10 && len(s.Positions) > 0 {
			fmt.Printf("\n>>> holding kill on %s (%s)\n", s.Positions[0].ID, s.Positions[0].Symbol)
			d.RequestHold(s.Positions[0].ID)
		}
		if runTicks > 0 && ticks >= runTicks {
			cancel()
		}
	})
	defer unsubscribe()

	interval, _ := cfg.Dashboard.ParseTickInterval()
	f := feed.NewRandom(interval, 6, cfg.Risk.QuotaMax, runSeed)

	fmt.Printf("Running dashboard with config: %s\n\n", runConfigPath)
	return d.Run(ctx, f)
}

// render prints one snapshot as plain text. This is a demo stand-in for
// the real rendering layer, which only ever reads snapshots.
func render(s dash.Snapshot, tick int) {
	fmt.Printf("tick %d  %s  health=%s lat=%.0fms quota=%d/%d mem=%.0f/%.0fMB\n",
		tick, s.Time.Format("15:04:05"),
		s.Health.Status, s.Health.LatencyMS,
		s.Health.QuotaRemaining, s.Health.QuotaMax,
		s.Health.MemUsedMB, s.Health.MemTotalMB)
	fmt.Printf("  daily P&L %+.2f  win rate %.0f%%  open %d\n",
		s.DailyPnL, s.WinRate*100, len(s.Positions))

	for _, p := range s.Positions {
		flags := []string{}
		if p.DrawdownTier != 0 {
			flags = append(flags, "dd:"+p.DrawdownTier.String())
		}
		if p.StalenessTier != 0 {
			flags = append(flags, "stale:"+p.StalenessTier.String())
		}
		if p.SizeTier != 0 {
			flags = append(flags, "size:"+p.SizeTier.String())
		}
		line := fmt.Sprintf("  %-5s %-7s mark %.5f P&L %+8.2f z %+0.2f age %3.0f/%3.0fm",
			p.Side, p.Symbol, p.MarkPrice, p.PnL, p.ZScore, p.DurationMinutes, p.MaxDurationMinutes)
		if len(flags) > 0 {
			line += "  [" + strings.Join(flags, " ") + "]"
		}
		if p.HoldProgress > 0 {
			line += fmt.Sprintf("  KILL %3.0f%%", p.HoldProgress*100)
		}
		fmt.Println(line)
	}

	if n := len(s.Log); n > 0 {
		last := s.Log[n-1]
		fmt.Printf("  log #%d [%s] %s\n", last.ID, last.Level, last.Message)
	}
	fmt.Println()
}
