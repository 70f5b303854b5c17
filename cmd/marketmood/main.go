// marketmood: market sentiment aggregation for ticker symbols.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/seenimoa/marketmood/internal/batch"
	"github.com/seenimoa/marketmood/internal/config"
	"github.com/seenimoa/marketmood/internal/datasource"
	"github.com/seenimoa/marketmood/internal/engine"
	"github.com/seenimoa/marketmood/internal/infra"
	"github.com/seenimoa/marketmood/internal/lexicon"
	"github.com/seenimoa/marketmood/internal/scoring"
	"github.com/seenimoa/marketmood/pkg/models"
	"github.com/seenimoa/marketmood/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "marketmood",
	Short: "marketmood: market sentiment aggregation for ticker symbols",
	Long: `marketmood pulls short text items from multiple news and social
providers in a fixed priority order, scores each item's polarity, and
combines the results into one aggregate sentiment signal per symbol.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real deployments use the environment directly.
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		setupLogging(cmd)
		return nil
	},
}

func setupLogging(cmd *cobra.Command) {
	level := cfg.Logging.Level
	if override, _ := cmd.Flags().GetString("log-level"); override != "" {
		level = override
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if cfg.Logging.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(sourcesCmd)
}

// buildEngine assembles an engine from config plus command flags.
func buildEngine(cmd *cobra.Command) (*engine.Engine, error) {
	creds := engine.Credentials{
		EODHD:        cfg.Keys.EODHD,
		AlphaVantage: cfg.Keys.AlphaVantage,
		Finnhub:      cfg.Keys.Finnhub,
		StockGeist:   cfg.Keys.StockGeist,
	}

	opts := []engine.Option{
		engine.WithCacheTTL(time.Duration(cfg.Sentiment.CacheTTL) * time.Second),
	}

	quota := cfg.Sentiment.Quota
	if flagQuota, _ := cmd.Flags().GetInt("quota"); flagQuota > 0 {
		quota = flagQuota
	}
	opts = append(opts, engine.WithQuota(quota))

	sourceNames := cfg.Sentiment.Sources
	if flagSources, _ := cmd.Flags().GetString("sources"); flagSources != "" {
		sourceNames = strings.Split(flagSources, ",")
	}
	var selected []models.SourceID
	for _, name := range sourceNames {
		id, err := datasource.ParseSourceID(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		selected = append(selected, id)
	}
	if len(selected) > 0 {
		opts = append(opts, engine.WithSources(selected...))
	}

	// The profile wins over quota and sources when set.
	useCase := cfg.Sentiment.UseCase
	if flagUC, _ := cmd.Flags().GetString("use-case"); flagUC != "" {
		useCase = flagUC
	}
	if useCase != "" {
		uc, err := engine.ParseUseCase(useCase)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithUseCase(uc))
	}

	return engine.New(creds, opts...), nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marketmood %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbol]",
	Short: "Aggregate sentiment for one symbol",
	Long:  "Walk the provider fallback chain, score the collected items, and print the aggregate sentiment.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine(cmd)
		if err != nil {
			return err
		}

		symbol := utils.NormalizeSymbol(args[0])
		company, _ := cmd.Flags().GetString("company")

		result, err := eng.GetSentiment(cmd.Context(), symbol, company)
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s (mean polarity %+.4f)\n", result.Symbol, result.Label, result.MeanPolarity)
		fmt.Printf("  positive: %d  negative: %d  neutral: %d\n",
			result.PositiveCount, result.NegativeCount, result.NeutralCount)
		for _, title := range result.Titles {
			fmt.Printf("  - %s\n", title)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Int("quota", 0, "article quota to fill (default from config)")
	analyzeCmd.Flags().String("sources", "", "comma-separated source subset (default: all)")
	analyzeCmd.Flags().String("use-case", "", "named profile: hft, retail, quant, academic, fintech")
	analyzeCmd.Flags().String("company", "", "company name for query-based providers")
}

// --- Batch Command ---

var batchCmd = &cobra.Command{
	Use:   "batch [symbol...]",
	Short: "Score many symbols through the primary source",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quota := cfg.Batch.Quota
		if flagQuota, _ := cmd.Flags().GetInt("quota"); flagQuota > 0 {
			quota = flagQuota
		}

		primary := datasource.NewFinviz()
		primary.ResolveText = false // headlines are enough at batch volume

		proc := batch.New(primary,
			batch.WithQuota(quota),
			batch.WithConcurrency(cfg.Batch.Concurrency),
		)

		rows := proc.Process(cmd.Context(), args)
		if len(rows) == 0 {
			fmt.Println("no rows")
			return nil
		}
		for _, row := range rows {
			fmt.Printf("%-6s %+.4f (ma %+.4f)  %s\n", row.Symbol, row.Compound, row.RollingMean, row.Title)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().Int("quota", 0, "per-symbol article quota (default from config)")
}

// --- Score Command ---

var scoreCmd = &cobra.Command{
	Use:   "score [text]",
	Short: "Score a single text with the lexicon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := args[0]

		if terms, _ := cmd.Flags().GetStringArray("term"); len(terms) > 0 {
			custom, err := parseCustomTerms(terms)
			if err != nil {
				return err
			}
			b, err := scoring.ScoreWithLexicon(text, custom)
			if err != nil {
				return err
			}
			fmt.Printf("compound %+.4f  pos %.3f  neu %.3f  neg %.3f\n", b.Compound, b.Pos, b.Neu, b.Neg)
			return nil
		}

		if apiScore, _ := cmd.Flags().GetFloat64("hybrid-api-score"); cmd.Flags().Changed("hybrid-api-score") {
			weight, _ := cmd.Flags().GetFloat64("weight")
			h := scoring.Hybrid(lexicon.New(), apiScore, text, weight)
			fmt.Printf("lexicon %+.4f  api %+.4f  hybrid %+.4f  confidence %.4f\n",
				h.RawLexicon, h.RawAPI, h.Hybrid, h.Confidence)
			return nil
		}

		if robust, _ := cmd.Flags().GetBool("robust"); robust {
			scorer := scoring.NewRobustScorer(lexicon.New(), infra.NewCache(time.Hour), scoring.DefaultRetryPolicy)
			b := scorer.Score(cmd.Context(), text)
			fmt.Printf("compound %+.4f  pos %.3f  neu %.3f  neg %.3f\n", b.Compound, b.Pos, b.Neu, b.Neg)
			return nil
		}

		b, err := lexicon.New().Score(text)
		if err != nil {
			return err
		}
		fmt.Printf("compound %+.4f  pos %.3f  neu %.3f  neg %.3f\n", b.Compound, b.Pos, b.Neu, b.Neg)
		return nil
	},
}

func init() {
	scoreCmd.Flags().Float64("hybrid-api-score", 0, "blend with an external score on the [0,1] scale")
	scoreCmd.Flags().Float64("weight", 0.7, "lexicon weight for hybrid blending")
	scoreCmd.Flags().Bool("robust", false, "use the retry-hardened scorer with neutral fallback")
	scoreCmd.Flags().StringArray("term", nil, "custom lexicon term as phrase=weight (repeatable)")
}

// parseCustomTerms parses repeated phrase=weight flags into a term map.
func parseCustomTerms(terms []string) (map[string]float64, error) {
	custom := make(map[string]float64, len(terms))
	for _, term := range terms {
		phrase, raw, ok := strings.Cut(term, "=")
		if !ok || phrase == "" {
			return nil, fmt.Errorf("invalid term %q, want phrase=weight", term)
		}
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight in term %q: %w", term, err)
		}
		custom[phrase] = weight
	}
	return custom, nil
}

// --- Sources Command ---

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered sources in fallback priority order",
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range datasource.KnownSources {
			fmt.Println(id)
		}
	},
}
