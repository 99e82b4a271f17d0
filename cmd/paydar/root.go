package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/paydar/paydar/internal/ai"
	"github.com/paydar/paydar/internal/config"
	"github.com/paydar/paydar/internal/model"
	"github.com/paydar/paydar/internal/notifier"
	"github.com/paydar/paydar/internal/ratelimit"
	"github.com/paydar/paydar/internal/sampler"
	"github.com/paydar/paydar/internal/store"
)

var (
	cfgPath   string
	debug     bool
	noHistory bool
)

// Shared request flags for estimate, spot and watch.
var (
	flagTitle    string
	flagCompany  string
	flagLocation string
	flagTier     string
	flagSamples  int
)

var rootCmd = &cobra.Command{
	Use:   "paydar",
	Short: "Salary radar: ask Claude what a role pays",
	Long:  "Paydar samples Claude repeatedly for salary estimates and turns the replies into a distribution.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: PAYDAR_CONFIG env var or ./paydar.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record this run")
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagTitle, "title", "t", "", "job title")
	cmd.Flags().StringVarP(&flagCompany, "company", "o", "", "company name")
	cmd.Flags().StringVarP(&flagLocation, "location", "l", "", "city or region")
	cmd.Flags().StringVar(&flagTier, "tier", "", "model tier: haiku, sonnet or opus (default from config)")
	cmd.Flags().IntVarP(&flagSamples, "samples", "n", 0, "how many times to query, 1-100 (default from config)")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > PAYDAR_CONFIG env var > "./paydar.yaml".
// A missing file at the implicit default path falls back to built-in defaults
// so the tool works with just ANTHROPIC_API_KEY set.
func loadConfig(path string) (*config.Config, error) {
	// A local .env may carry ANTHROPIC_API_KEY.
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("PAYDAR_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "paydar.yaml"
		}
	}
	if !explicit {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func requireKey(cfg *config.Config, logger *slog.Logger) {
	if cfg.API.Key == "" {
		logger.Error("missing API key: set ANTHROPIC_API_KEY or api.key in config")
		os.Exit(1)
	}
}

// newCompleter builds the Anthropic client, paced when the config asks for a
// minimum delay between requests.
func newCompleter(cfg *config.Config) model.Completer {
	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	var c model.Completer = ai.NewAnthropicProvider(cfg.API.BaseURL, cfg.API.Key, httpClient)
	if cfg.API.MinDelay > 0 {
		c = ratelimit.NewPacedCompleter(c, ratelimit.NewModelRateLimiter(cfg.API.MinDelay))
	}
	return c
}

// openStore returns the run store and a close func. History trouble degrades
// to the no-op store; an estimate should not die because its log cannot open.
func openStore(cfg *config.Config, logger *slog.Logger) (model.RunStore, func()) {
	if noHistory || !cfg.History.Enabled {
		return store.NewNopStore(), func() {}
	}
	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		logger.Warn("history disabled: cannot open store", "path", cfg.History.Path, "error", err)
		return store.NewNopStore(), func() {}
	}
	return s, func() { s.Close() }
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildRequest merges request flags with config defaults and validates.
func buildRequest(cfg *config.Config) (model.Request, error) {
	tier := cfg.Defaults.Tier
	if flagTier != "" {
		t, err := model.ParseTier(flagTier)
		if err != nil {
			return model.Request{}, err
		}
		tier = t
	}
	samples := flagSamples
	if samples == 0 {
		samples = cfg.Defaults.Samples
	}

	req := model.Request{
		Title:    flagTitle,
		Company:  flagCompany,
		Location: flagLocation,
		Tier:     tier,
		Samples:  samples,
	}
	if err := req.Validate(); err != nil {
		return model.Request{}, err
	}
	if req.Title == "" && req.Company == "" && req.Location == "" {
		pterm.Warning.Println("Title, company and location are all empty; the estimate will be generic.")
	}
	return req, nil
}

// startProgress attaches a progress bar to the sampler when stdout is a
// terminal. Returns nil otherwise.
func startProgress(s *sampler.Sampler, samples int) *pb.ProgressBar {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil
	}
	bar := pb.StartNew(samples)
	s.OnSample = func(bool) {
		bar.Increment()
	}
	return bar
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		pterm.Warning.Println(w)
	}
}

func distributionRecord(req model.Request, d model.Distribution) model.RunRecord {
	med, _ := d.Median()
	return model.RunRecord{
		CreatedAt:   time.Now(),
		Kind:        model.KindDistribution,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Tier:        req.Tier,
		Requested:   req.Samples,
		Valid:       d.Valid,
		Median:      med,
		Percentiles: d.Percentiles,
	}
}

func spotRecord(req model.Request, est model.SpotEstimate) model.RunRecord {
	return model.RunRecord{
		CreatedAt: time.Now(),
		Kind:      model.KindSpot,
		Title:     req.Title,
		Company:   req.Company,
		Location:  req.Location,
		Tier:      req.Tier,
		Requested: req.Samples,
		Valid:     est.Valid(),
		Median:    est.Median,
	}
}

func saveRun(st model.RunStore, rec model.RunRecord, logger *slog.Logger) {
	if err := st.Save(rec); err != nil {
		logger.Warn("save run", "error", err)
	}
}
