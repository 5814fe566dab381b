package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Garsondee/Bird-Sense/internal/game"
	"github.com/Garsondee/Bird-Sense/internal/logging"
	"github.com/Garsondee/Bird-Sense/internal/observability"
	"github.com/Garsondee/Bird-Sense/internal/sim"
)

type stageCount struct {
	deaths int
	saved  int
}

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstDeathTick int
	lastDeathTick  int
	firstSaveTick  int

	stats      sim.Stats
	perStage   map[string]stageCount
	assessment game.Assessment

	windowSummary *game.WindowReport
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var stageName string
	var resolved bool
	var verbose bool
	var metricsAddr string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per stage")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&stageName, "stage", "all", "stage to run: collision, attraction, obstruction or all")
	flag.BoolVar(&resolved, "resolved", false, "run with every hazard fixed")
	flag.BoolVar(&verbose, "verbose", false, "print the full run log of each run")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "after the runs, serve Prometheus metrics here until interrupted")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	stages, err := parseStages(stageName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	log := logging.NewFromEnv()
	reg := prometheus.NewRegistry()
	collector, err := observability.NewSimCollector(reg)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Migration Report ===\n")
	fmt.Printf("stage=%s resolved=%t runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", stageName, resolved, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		h := game.NewHarness(
			game.WithSeed(seed),
			game.WithStage(stages[0]),
			game.WithResolved(resolved),
			game.WithVerbose(verbose),
			game.WithCollector(collector),
			game.WithHarnessLogger(log),
		)
		rs := runStages(h, i+1, stages, ticks)
		all = append(all, rs)
		printRun(rs)
		if verbose {
			fmt.Print(h.RunLog.Format())
			fmt.Println()
		}
	}

	printAggregate(all)

	if metricsAddr != "" {
		if err := serveMetrics(metricsAddr, collector, log); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

// parseStages maps the -stage flag to the hazard stages to run in order.
func parseStages(name string) ([]sim.Stage, error) {
	if strings.EqualFold(strings.TrimSpace(name), "all") {
		return sim.HazardStages, nil
	}
	st, ok := sim.ParseStage(name)
	if !ok || !st.Simulated() {
		return nil, fmt.Errorf("unsupported stage %q (supported: collision, attraction, obstruction, all)", name)
	}
	return []sim.Stage{st}, nil
}

// runStages plays each stage for ticks frames on one harness, carrying the
// live set across stage changes the way the game does.
func runStages(h *game.Harness, runIndex int, stages []sim.Stage, ticks int) runStats {
	for _, st := range stages {
		h.SetStage(st)
		h.RunTicks(ticks)
	}
	rr := h.Report()
	return runStats{
		runIndex:       runIndex,
		seed:           rr.Seed,
		ticks:          rr.Ticks,
		firstDeathTick: rr.FirstDeathTick,
		lastDeathTick:  rr.LastDeathTick,
		firstSaveTick:  rr.FirstSaveTick,
		stats:          rr.Stats,
		perStage:       stageBreakdown(h.RunLog.Filter("fate", "")),
		assessment:     rr.Assessment,
		windowSummary:  rr.Window,
	}
}

func stageBreakdown(entries []game.RunLogEntry) map[string]stageCount {
	out := map[string]stageCount{}
	for _, e := range entries {
		if e.Category != "fate" {
			continue
		}
		c := out[e.Stage]
		switch e.Key {
		case sim.EventDeath.String():
			c.deaths++
		case sim.EventSaved.String():
			c.saved++
		default:
			continue
		}
		out[e.Stage] = c
	}
	return out
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_death=%d last_death=%d first_save=%d\n", rs.firstDeathTick, rs.lastDeathTick, rs.firstSaveTick)
	fmt.Printf("totals: ticks=%d spawned=%d deaths=%d saved=%d dropped=%d\n",
		rs.ticks, rs.stats.Spawned, rs.stats.Deaths, rs.stats.Saved, rs.stats.Dropped)
	for _, st := range sim.HazardStages {
		c, ok := rs.perStage[st.String()]
		if !ok {
			continue
		}
		fmt.Printf("  %-11s deaths=%d saved=%d survival=%.1f%%\n", st, c.deaths, c.saved, game.SurvivalRate(c.saved, c.deaths))
	}
	fmt.Printf("outlook=%s (%s) survival=%.1f%%\n", rs.assessment.Verdict, rs.assessment.Description, rs.assessment.SurvivalRate)
	if rs.windowSummary != nil {
		fmt.Print(rs.windowSummary.Format())
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalDeaths := 0
	totalSaved := 0
	totalDropped := 0
	grim := 0
	deathTicks := make([]int, 0, len(all))
	saveTicks := make([]int, 0, len(all))
	perStage := map[string]stageCount{}

	for _, rs := range all {
		totalDeaths += rs.stats.Deaths
		totalSaved += rs.stats.Saved
		totalDropped += rs.stats.Dropped
		if rs.assessment.Verdict == game.VerdictGrim {
			grim++
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		if rs.firstSaveTick >= 0 {
			saveTicks = append(saveTicks, rs.firstSaveTick)
		}
		for stage, c := range rs.perStage {
			agg := perStage[stage]
			agg.deaths += c.deaths
			agg.saved += c.saved
			perStage[stage] = agg
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d grim_runs=%d\n", len(all), grim)
	fmt.Printf("avg_per_run: deaths=%.1f saved=%.1f dropped=%.1f\n",
		avg(totalDeaths, len(all)), avg(totalSaved, len(all)), avg(totalDropped, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_death=%s first_save=%s\n", avgTickString(deathTicks), avgTickString(saveTicks))
	fmt.Printf("overall_survival=%.1f%%\n", game.SurvivalRate(totalSaved, totalDeaths))
	for _, st := range sim.HazardStages {
		c, ok := perStage[st.String()]
		if !ok {
			continue
		}
		fmt.Printf("  %-11s avg_deaths=%.1f avg_saved=%.1f survival=%.1f%%\n",
			st, avg(c.deaths, len(all)), avg(c.saved, len(all)), game.SurvivalRate(c.saved, c.deaths))
	}
}

func serveMetrics(addr string, collector *observability.SimCollector, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &http.Server{Addr: addr, Handler: collector.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info(ctx, "serving metrics until interrupted", logging.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
