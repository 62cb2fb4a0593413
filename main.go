package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/op/go-logging"

	"github.com/Malavika77/swiftcart/dataset"
	"github.com/Malavika77/swiftcart/pipeline"
	"github.com/Malavika77/swiftcart/report"
	"github.com/Malavika77/swiftcart/rules"
)

var log = logging.MustGetLogger("log")

// InitLogger Receives the log level to be set in go-logging as a string. This method
// parses the string and set the level to the logger. If the level string is not
// valid an error is returned
func InitLogger(logLevel string) error {
	baseBackend := logging.NewLogBackend(os.Stdout, "", 0)
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05} %{level:.5s}     %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(baseBackend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	logLevelCode, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}
	backendLeveled.SetLevel(logLevelCode, "")

	// Set the backends to be used.
	logging.SetBackend(backendLeveled)
	return nil
}

func main() {
	config, err := InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	if err := InitLogger(config.LogLevel); err != nil {
		log.Fatalf("%s", err)
	}

	log.Debugf("Config: %+v", config)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := &dataset.Reader{FilePath: config.DatasetPath, BatchSize: config.BatchSize}
	rows, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read dataset: %v", err)
	}
	log.Infof("Loaded %d rows from %s", len(rows), config.DatasetPath)

	runner := pipeline.NewRunner()
	result, err := runner.Run(ctx, pipeline.NewDataset(rows), pipeline.Params{
		MinSupport: config.MinSupport,
		MinLift:    config.MinLift,
		MaxLen:     config.MaxLen,
		Workers:    config.Workers,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printReport(config, result)

	if config.OutputPath != "" {
		if err := writeRules(config.OutputPath, result.Rules); err != nil {
			log.Fatalf("Failed to write rules: %v", err)
		}
		log.Infof("Wrote %d rules to %s", len(result.Rules), config.OutputPath)
	}
}

func printReport(config *Config, result *pipeline.Result) {
	summary := report.Summarize(result.Records, result.Rules)
	log.Infof(
		"Transactions: %d | Unique products: %d | Avg basket value: %.2f | Rules: %d",
		summary.TotalTransactions, summary.UniqueProducts,
		summary.AvgBasketValue, summary.RulesFound,
	)

	if summary.RulesFound == 0 {
		log.Warning("No association rules meet the configured thresholds")
		return
	}

	log.Infof("Top %d rules by lift:", config.TopRules)
	for _, r := range report.TopRulesByLift(result.Rules, config.TopRules) {
		log.Infof(
			"  {%s} => {%s}  support %.4f  confidence %.4f  lift %.2f",
			r.AntecedentString(), r.ConsequentString(),
			r.Support, r.Confidence, r.Lift,
		)
	}

	if config.RecommendItem != "" {
		recommendations := report.Recommendations(result.Rules, config.RecommendItem, 3)
		if len(recommendations) == 0 {
			log.Warningf("No strong associations found for %q", config.RecommendItem)
			return
		}
		log.Infof("Cross-sell partners for %q:", config.RecommendItem)
		for _, r := range recommendations {
			log.Infof(
				"  %s (confidence %.1f%%, lift %.2fx)",
				r.ConsequentString(), r.Confidence*100, r.Lift,
			)
		}
	}
}

func writeRules(path string, ruleSet []rules.Rule) error {
	data, err := json.MarshalIndent(ruleSet, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
