package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/yongchuan/taxgo/internal/advisor"
	"github.com/yongchuan/taxgo/internal/calculation"
	"github.com/yongchuan/taxgo/internal/compare"
	"github.com/yongchuan/taxgo/internal/domain"
	"github.com/yongchuan/taxgo/internal/facts"
	"github.com/yongchuan/taxgo/internal/quota"
	"github.com/yongchuan/taxgo/internal/rules"
	"github.com/yongchuan/taxgo/internal/server"
	"github.com/yongchuan/taxgo/internal/solve"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "taxgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

var rootCmd = &cobra.Command{
	Use:   "taxgo",
	Short: "Taiwan estate and gift tax estimation CLI",
	Long:  "Estate/gift tax estimators, planning-strategy comparison, and rule fact sheets for Taiwan's progressive transfer taxes.",
}

// loadStore loads the rule store from --rules when given (or rules.yaml if
// present), otherwise falls back to the built-in rule data.
func loadStore(cmd *cobra.Command) (*rules.Store, error) {
	rulesFile, _ := cmd.Flags().GetString("rules")
	if rulesFile == "" && fileExists("rules.yaml") {
		rulesFile = "rules.yaml"
	}
	if rulesFile == "" {
		return rules.DefaultStore(), nil
	}

	fmt.Printf("Loading rule data from: %s\n", rulesFile)
	store, err := rules.LoadFromFile(rulesFile)
	if err != nil {
		return nil, err
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	return store, nil
}

// parseAsOf reads the --as-of flag; empty means today.
func parseAsOf(cmd *cobra.Command) (time.Time, error) {
	s, _ := cmd.Flags().GetString("as-of")
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}

func newEngine(cmd *cobra.Command, store *rules.Store) *calculation.Engine {
	engine := calculation.NewEngine(store)
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

var estimateCmd = &cobra.Command{
	Use:   "estimate [estate|gift]",
	Short: "Estimate estate or gift tax for a single household",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := loadStore(cmd)
		if err != nil {
			log.Fatal(err)
		}
		asOf, err := parseAsOf(cmd)
		if err != nil {
			log.Fatal(err)
		}
		engine := newEngine(cmd, store)

		var result *domain.EstimationResult
		switch strings.ToLower(args[0]) {
		case "estate":
			amount, _ := cmd.Flags().GetFloat64("amount")
			debts, _ := cmd.Flags().GetFloat64("debts")
			funeral, _ := cmd.Flags().GetFloat64("funeral")
			insurance, _ := cmd.Flags().GetFloat64("insurance")
			spouse, _ := cmd.Flags().GetBool("spouse")
			children, _ := cmd.Flags().GetInt("children")
			ascendants, _ := cmd.Flags().GetInt("ascendants")
			disabled, _ := cmd.Flags().GetInt("disabled")
			dependents, _ := cmd.Flags().GetInt("dependents")

			spouseCount := 0
			if spouse {
				spouseCount = 1
			}
			result, err = engine.Estate.Estimate(domain.EstateInput{
				GrossEstate:         decimal.NewFromFloat(amount),
				Debts:               decimal.NewFromFloat(debts),
				FuneralExpense:      decimal.NewFromFloat(funeral),
				LifeInsurancePayout: decimal.NewFromFloat(insurance),
				SpouseCount:         spouseCount,
				LinealDescendants:   children,
				LinealAscendants:    ascendants,
				DisabledCount:       disabled,
				OtherDependents:     dependents,
			}, asOf)

		case "gift":
			amount, _ := cmd.Flags().GetFloat64("amount")
			spouseSplit, _ := cmd.Flags().GetBool("spouse-split")
			minors, _ := cmd.Flags().GetInt("minor-children")

			result, err = engine.Gift.Estimate(domain.GiftInput{
				GiftsAmount:   decimal.NewFromFloat(amount),
				SpouseSplit:   spouseSplit,
				MinorChildren: minors,
			}, asOf)

		default:
			log.Fatalf("unknown tax type %q (valid: estate, gift)", args[0])
		}
		if err != nil {
			log.Fatal(err)
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(outputFormat) {
		case "json":
			printResultJSON(result)
		case "console", "":
			printResultConsole(result)
		default:
			log.Fatalf("Unknown output format: %s (valid: console, json)", outputFormat)
		}
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare baseline, systematic gifting, and combo planning strategies",
	Long: `Compare a do-nothing baseline against systematic annual gifting and a
gifting-plus-relief combo plan for the same household.

Examples:
  ./taxgo compare --gross 100000000 --children 2 --spouse --years 10 --recipients 2
  ./taxgo compare --gross 100000000 --years 10 --recipients 4 --format json
`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := loadStore(cmd)
		if err != nil {
			log.Fatal(err)
		}
		asOf, err := parseAsOf(cmd)
		if err != nil {
			log.Fatal(err)
		}

		gross, _ := cmd.Flags().GetFloat64("gross")
		children, _ := cmd.Flags().GetInt("children")
		spouse, _ := cmd.Flags().GetBool("spouse")
		years, _ := cmd.Flags().GetInt("years")
		recipients, _ := cmd.Flags().GetInt("recipients")

		comparator := compare.NewComparator(newEngine(cmd, store), store)
		comparison, err := comparator.Compare(compare.Options{
			GrossEstate:   decimal.NewFromFloat(gross),
			NumChildren:   children,
			IncludeSpouse: spouse,
			Years:         years,
			Recipients:    recipients,
			AsOf:          asOf,
		})
		if err != nil {
			log.Fatalf("Comparison failed: %v", err)
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(outputFormat) {
		case "json":
			formatter := &compare.JSONFormatter{}
			out, err := formatter.Format(comparison)
			if err != nil {
				log.Fatalf("Failed to format JSON: %v", err)
			}
			fmt.Println(out)

		case "table", "console", "":
			formatter := &compare.TableFormatter{}
			fmt.Print(formatter.Format(comparison))

		default:
			log.Fatalf("Unknown output format: %s (valid: table, json)", outputFormat)
		}
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find the gifting horizon that brings estate tax down to a target",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := loadStore(cmd)
		if err != nil {
			log.Fatal(err)
		}
		asOf, err := parseAsOf(cmd)
		if err != nil {
			log.Fatal(err)
		}

		gross, _ := cmd.Flags().GetFloat64("gross")
		children, _ := cmd.Flags().GetInt("children")
		spouse, _ := cmd.Flags().GetBool("spouse")
		recipients, _ := cmd.Flags().GetInt("recipients")
		target, _ := cmd.Flags().GetFloat64("target")
		maxYears, _ := cmd.Flags().GetInt("max-years")

		comparator := compare.NewComparator(newEngine(cmd, store), store)
		solver := solve.NewSolver(comparator)
		result, err := solver.Solve(cmd.Context(), solve.Request{
			GrossEstate:   decimal.NewFromFloat(gross),
			NumChildren:   children,
			IncludeSpouse: spouse,
			Recipients:    recipients,
			TargetTax:     decimal.NewFromFloat(target),
			MaxYears:      maxYears,
			AsOf:          asOf,
		})
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println("GIFTING HORIZON ANALYSIS")
		fmt.Println(strings.Repeat("=", 50))
		fmt.Printf("Horizons evaluated: %d\n", result.Evaluated)
		fmt.Printf("Result: %s\n", result.ConvergenceInfo)
		if result.Comparison != nil {
			fmt.Printf("Estate tax at %d gifting years: %s\n",
				result.Years, result.Comparison.GiftingPlan.Computed.TaxDue.StringFixed(0))
			fmt.Printf("Tax-free transferred: %s\n", result.Comparison.TotalGiftFree.StringFixed(0))
		}
	},
}

var factsCmd = &cobra.Command{
	Use:   "facts [estate|gift]",
	Short: "Print the fact sheet for the active rule-set version",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := loadStore(cmd)
		if err != nil {
			log.Fatal(err)
		}
		asOf, err := parseAsOf(cmd)
		if err != nil {
			log.Fatal(err)
		}

		var taxType domain.TaxType
		switch strings.ToLower(args[0]) {
		case "estate":
			taxType = domain.TaxTypeEstate
		case "gift":
			taxType = domain.TaxTypeGift
		default:
			log.Fatalf("unknown tax type %q (valid: estate, gift)", args[0])
		}

		sheet, err := facts.NewSummarizer(store).Summarize(taxType, asOf)
		if err != nil {
			log.Fatal(err)
		}

		if sheet.IsDemo {
			fmt.Println("NOTE: illustrative (demo) rule data - verify with official sources")
		}
		if sheet.IsExpired {
			fmt.Println("NOTE: the active rule-set version's effective period has passed")
		}
		for _, line := range sheet.Lines {
			fmt.Println(line)
		}
		if len(sheet.Sources) > 0 {
			fmt.Println("資料來源：")
			for _, src := range sheet.Sources {
				fmt.Printf("- %s %s\n", src.Title, src.URL)
			}
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the estimation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		v := viper.New()
		v.SetDefault("server.port", 8080)
		v.SetDefault("advisor.model", "")
		v.SetConfigName("taxgo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.SetEnvPrefix("TAXGO")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return err
			}
		}

		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, err := loadStore(cmd)
		if err != nil {
			return err
		}
		engine := calculation.NewEngine(store)
		comparator := compare.NewComparator(engine, store)
		summarizer := facts.NewSummarizer(store)
		quotaSvc := quota.NewMemoryService(nil)

		var relay advisor.Relay
		if apiKey := v.GetString("advisor.api_key"); apiKey != "" {
			relay = advisor.NewOpenAIRelay(apiKey, v.GetString("advisor.model"), summarizer, logger)
		} else {
			logger.Warn("no advisor api key configured; /api/chat disabled")
		}

		srv := server.New(engine, comparator, summarizer, quotaSvc, relay, logger)

		port := v.GetInt("server.port")
		if flagPort, _ := cmd.Flags().GetInt("port"); flagPort != 0 {
			port = flagPort
		}
		return srv.Serve(ctx, port)
	},
}

func printResultJSON(result *domain.EstimationResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))
}

func printResultConsole(result *domain.EstimationResult) {
	label := "ESTATE TAX ESTIMATE"
	if result.TaxType == domain.TaxTypeGift {
		label = "GIFT TAX ESTIMATE"
	}

	fmt.Println(label)
	fmt.Println(strings.Repeat("=", 50))
	if result.Version != nil {
		fmt.Printf("Rule-set version: %s (%s)\n", result.Version.Version, result.Currency)
		if result.Version.IsDemo {
			fmt.Println("NOTE: illustrative (demo) rule data - verify with official sources")
		}
	}
	fmt.Printf("Total deductions: %s\n", result.Computed.Deductions.Total().StringFixed(0))
	fmt.Printf("Taxable base:     %s\n", result.Computed.TaxableBase.StringFixed(0))
	rate := result.Computed.RateApplied.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
	if result.Computed.BracketIndex >= 0 {
		rate = fmt.Sprintf("%s (tier %d)", rate, result.Computed.BracketIndex+1)
	}
	fmt.Printf("Rate applied:     %s\n", rate)
	fmt.Printf("Tax due:          %s\n", result.Computed.TaxDue.StringFixed(0))
}

func init() {
	rootCmd.PersistentFlags().String("rules", "", "Path to rule data file (default: rules.yaml if it exists, else built-in data)")
	rootCmd.PersistentFlags().String("as-of", "", "Estimation date YYYY-MM-DD (default: today)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	estimateCmd.Flags().Float64("amount", 0, "Gross estate or total gifts amount")
	estimateCmd.Flags().Float64("debts", 0, "Deductible debts (estate)")
	estimateCmd.Flags().Float64("funeral", 0, "Funeral expenses (estate, capped)")
	estimateCmd.Flags().Float64("insurance", 0, "Life insurance payout (estate, capped exemption)")
	estimateCmd.Flags().Bool("spouse", false, "Surviving spouse present (estate)")
	estimateCmd.Flags().Int("children", 0, "Lineal descendants (estate)")
	estimateCmd.Flags().Int("ascendants", 0, "Lineal ascendants (estate)")
	estimateCmd.Flags().Int("disabled", 0, "Disabled heirs (estate)")
	estimateCmd.Flags().Int("dependents", 0, "Other dependents (estate)")
	estimateCmd.Flags().Bool("spouse-split", false, "Split gifts with spouse (gift)")
	estimateCmd.Flags().Int("minor-children", 0, "Minor children receiving gifts (gift)")
	estimateCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")

	compareCmd.Flags().Float64("gross", 0, "Gross estate amount")
	compareCmd.Flags().Int("children", 0, "Number of children")
	compareCmd.Flags().Bool("spouse", false, "Include surviving spouse")
	compareCmd.Flags().Int("years", 0, "Gifting years")
	compareCmd.Flags().Int("recipients", 0, "Gift recipients per year")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	solveCmd.Flags().Float64("gross", 0, "Gross estate amount")
	solveCmd.Flags().Int("children", 0, "Number of children")
	solveCmd.Flags().Bool("spouse", false, "Include surviving spouse")
	solveCmd.Flags().Int("recipients", 1, "Gift recipients per year")
	solveCmd.Flags().Float64("target", 0, "Target estate tax (default 0)")
	solveCmd.Flags().Int("max-years", 0, "Maximum gifting years to evaluate (default 40)")

	serveCmd.Flags().Int("port", 0, "server port (default from config)")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(factsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
