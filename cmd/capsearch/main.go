package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"capsearch/internal/capacity"
	"capsearch/internal/config"
	"capsearch/internal/report"
	"capsearch/internal/runner"
)

const (
	ExitSuccess    = 0
	ExitNoCapacity = 1
	ExitError      = 2
)

var (
	app = kingpin.New("capsearch", "Discovers the maximum sustainable request rate of a target service by probing increasing load levels until failure rate or latency degrade.")

	experimentFile = flag("experiment", "Path to the YAML experiment file describing the target and workloads.").Short('e').Required().String()
	useUpdates     = flag("updates", "Probe the update workload instead of the query workload.").Bool()
	outputFormat   = flag("output", "Output format: text or json.").Default("text").Enum("text", "json")
	logLevel       = flag("log", "Log level: debug, info, warn, error.").Default("info").String()

	initialRPS        = flag("initial-rps", "First load level probed in query mode.").Default("100").Int()
	maxQueryLoad      = flag("max-query-load", "Highest query load level to probe.").Default("40000").Int()
	targetQueryLoad   = flag("target-query-load", "Query load level of primary interest; sampling is dense up to it.").Default("450").Int()
	queryRPSIncrement = flag("query-rps-increment", "Linear load step below the target in query mode.").Default("50").Int()

	updateInitialRPS   = flag("update-initial-rps", "First load level probed in update mode.").Default("20").Int()
	maxUpdateLoad      = flag("max-update-load", "Highest update load level to probe.").Default("1000").Int()
	targetUpdateLoad   = flag("target-update-load", "Update load level of primary interest.").Default("450").Int()
	updateRPSIncrement = flag("update-rps-increment", "Linear load step below the target in update mode.").Default("5").Int()

	growthMultiplier = flag("growth-multiplier", "Geometric growth factor applied beyond the target load.").Default("1.5").Float64()
	iterDuration     = flag("iter-duration", "How long each load level is sustained.").Default("300s").Duration()

	maxFailureRate   = flag("max-failure-rate", "Failure rate at which a round stops counting toward capacity.").Default("0.2").Float64()
	maxTMedian       = flag("max-t-median", "Median latency at which a query round stops counting toward capacity.").Default("5s").Duration()
	updateMaxTMedian = flag("update-max-t-median", "Median latency at which an update round stops counting toward capacity.").Default("5s").Duration()
	stopFailureRate  = flag("stop-failure-rate", "Failure rate at which the whole search aborts.").Default("0.95").Float64()
	stopTMedian      = flag("stop-t-median", "Median latency at which the whole search aborts.").Default("120s").Duration()
)

// flag registers a CLI flag that can also be set via a CAPSEARCH_
// environment variable, e.g. --initial-rps / CAPSEARCH_INITIAL_RPS.
func flag(name, help string) *kingpin.FlagClause {
	f := app.Flag(name, help)
	f.OverrideDefaultFromEnvar("CAPSEARCH_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_")))
	return f
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	log := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("invalid log level %q", *logLevel)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*experimentFile)
	if err != nil {
		log.Error(err)
		os.Exit(ExitError)
	}

	var run capacity.Runner
	switch cfg.Runner {
	case config.RunnerTarget:
		run = runner.NewTargetRunner(*cfg.Target, cfg.Timeout.Std(), log)
	case config.RunnerWorkflow:
		run = runner.NewWorkflowRunner(cfg, log)
	}

	plan, thresholds := modeParameters()

	datapoints, err := capacity.Datapoints(plan)
	if err != nil {
		log.Error(err)
		os.Exit(ExitError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	search := capacity.NewSearch(run, *iterDuration, thresholds, capacity.WithLogger(log))
	rep, searchErr := search.Run(ctx, datapoints)

	if *outputFormat == "json" {
		if err := report.WriteJSON(os.Stdout, rep); err != nil {
			log.Error(err)
			os.Exit(ExitError)
		}
	} else {
		report.WriteText(os.Stdout, rep)
	}

	if searchErr != nil {
		// The rounds already measured were reported above.
		log.Error(searchErr)
		os.Exit(ExitError)
	}
	if rep.Capacity == capacity.NoCapacity {
		os.Exit(ExitNoCapacity)
	}
	os.Exit(ExitSuccess)
}

// modeParameters assembles the plan and thresholds for the selected
// workload from the flag values.
func modeParameters() (capacity.Plan, capacity.Thresholds) {
	if *useUpdates {
		return capacity.Plan{
				Target:     *targetUpdateLoad,
				Initial:    *updateInitialRPS,
				Ceiling:    *maxUpdateLoad,
				Increment:  *updateRPSIncrement,
				Multiplier: *growthMultiplier,
			}, capacity.Thresholds{
				Workload:        capacity.WorkloadUpdate,
				MaxFailureRate:  *maxFailureRate,
				MaxMedian:       *updateMaxTMedian,
				StopFailureRate: *stopFailureRate,
				StopMedian:      *stopTMedian,
			}
	}
	return capacity.Plan{
			Target:     *targetQueryLoad,
			Initial:    *initialRPS,
			Ceiling:    *maxQueryLoad,
			Increment:  *queryRPSIncrement,
			Multiplier: *growthMultiplier,
		}, capacity.Thresholds{
			Workload:        capacity.WorkloadQuery,
			MaxFailureRate:  *maxFailureRate,
			MaxMedian:       *maxTMedian,
			StopFailureRate: *stopFailureRate,
			StopMedian:      *stopTMedian,
		}
}
