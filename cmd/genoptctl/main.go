package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"genopt/internal/evo"
	"genopt/internal/model"
	"genopt/internal/stats"
	"genopt/pkg/genopt"
)

const (
	dbPathEnv     = "GENOPT_DB_PATH"
	defaultDBPath = "genopt.db"
	trialsDir     = "trials"
)

func main() {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadDotEnv applies a dotenv file if one exists. Variables already set in
// the process environment win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "validate":
		return runValidate(ctx, args[1:])
	case "mutate":
		return runMutate(ctx, args[1:])
	case "trial":
		return runTrial(ctx, args[1:])
	case "profile-save":
		return runProfileSave(ctx, args[1:])
	case "profiles":
		return runProfiles(ctx, args[1:])
	case "trials":
		return runTrials(ctx, args[1:])
	case "kinds":
		return runKinds(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type storeFlags struct {
	kind   string
	dbPath string
}

func bindStoreFlags(fs *flag.FlagSet) *storeFlags {
	sf := &storeFlags{}
	fs.StringVar(&sf.kind, "store", "", "store backend: memory|sqlite (default from GENOPT_STORE)")
	fs.StringVar(&sf.dbPath, "db-path", envOr(dbPathEnv, defaultDBPath), "sqlite database path")
	return sf
}

func (sf *storeFlags) open(ctx context.Context) (*genopt.Client, error) {
	client, err := genopt.New(genopt.Options{StoreKind: sf.kind, DBPath: sf.dbPath})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type configFlags struct {
	path        string
	kind        string
	probability float64
	maxAttempts int
}

func bindConfigFlags(fs *flag.FlagSet) *configFlags {
	cf := &configFlags{}
	fs.StringVar(&cf.path, "config", "", "mutation config JSON path")
	fs.StringVar(&cf.kind, "kind", "", "override mutation kind")
	fs.Float64Var(&cf.probability, "probability", 0, "override mutation probability")
	fs.IntVar(&cf.maxAttempts, "max-attempts", 0, "override resample attempt bound")
	return cf
}

// load reads -config and applies explicitly set override flags. It returns
// nil when neither a config file nor an override was given.
func (cf *configFlags) load(fs *flag.FlagSet) (*genopt.MutationConfig, error) {
	setFlags := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	overridden := setFlags["kind"] || setFlags["probability"] || setFlags["max-attempts"]
	if cf.path == "" {
		if overridden {
			return nil, errors.New("override flags require -config")
		}
		return nil, nil
	}
	cfg, err := loadMutationConfigFromFile(cf.path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	overrideFromFlags(&cfg, setFlags, map[string]any{
		"kind":         cf.kind,
		"probability":  cf.probability,
		"max-attempts": cf.maxAttempts,
	})
	return &cfg, nil
}

func runValidate(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	cf := bindConfigFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.load(fs)
	if err != nil {
		return err
	}
	if cfg == nil {
		return usageError("validate requires -config")
	}
	engine, err := cfg.Engine()
	if err != nil {
		return err
	}
	if _, err := evo.ResolveLocusSelector(cfg.Kind); err != nil {
		return err
	}
	printConfig(os.Stdout, engine.Config())
	return nil
}

func runMutate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mutate", flag.ContinueOnError)
	sf := bindStoreFlags(fs)
	cf := bindConfigFlags(fs)
	profile := fs.String("profile", "", "stored profile name")
	inPath := fs.String("in", "", "individuals JSON path")
	outPath := fs.String("out", "", "write mutated individuals JSON here instead of stdout")
	batchID := fs.String("batch", "", "stored batch id to mutate when -in is not given")
	seed := fs.Int64("seed", 1, "random seed")
	workers := fs.Int("workers", 0, "concurrent mutations (0 = GOMAXPROCS)")
	save := fs.Bool("save", false, "store the mutated batch")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.load(fs)
	if err != nil {
		return err
	}
	if *inPath == "" && *batchID == "" {
		return usageError("mutate requires -in or -batch")
	}

	var individuals []model.Individual
	if *inPath != "" {
		individuals, err = readIndividuals(*inPath)
		if err != nil {
			return err
		}
	}

	client, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	result, mutateErr := client.Mutate(ctx, genopt.MutateRequest{
		Profile:     *profile,
		Config:      cfg,
		Individuals: individuals,
		BatchID:     *batchID,
		Seed:        *seed,
		Workers:     *workers,
		Save:        *save,
	})
	if mutateErr != nil && result.Individuals == nil {
		return mutateErr
	}

	payload := mutateOutput{
		BatchID:     result.BatchID,
		Individuals: result.Individuals,
		Outcomes:    result.Outcomes,
	}
	if *outPath == "" {
		if err := writeJSON(os.Stdout, payload); err != nil {
			return err
		}
		return mutateErr
	}
	if err := writeJSONFile(*outPath, payload); err != nil {
		return err
	}
	printMutateSummary(os.Stdout, result)
	return mutateErr
}

type mutateOutput struct {
	BatchID     string             `json:"batch_id,omitempty"`
	Individuals []model.Individual `json:"individuals"`
	Outcomes    []evo.Outcome      `json:"outcomes"`
}

func runTrial(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trial", flag.ContinueOnError)
	sf := bindStoreFlags(fs)
	cf := bindConfigFlags(fs)
	profile := fs.String("profile", "", "stored profile name")
	genomeJSON := fs.String("genome", "", "baseline genome as a JSON array")
	inPath := fs.String("in", "", "individuals JSON path; the first one is the baseline")
	trials := fs.Int("n", 1000, "number of trials")
	seed := fs.Int64("seed", 1, "random seed")
	jsonOut := fs.Bool("json", false, "print the report as JSON")
	artifactsDir := fs.String("artifacts-dir", "", "also write config and report under this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.load(fs)
	if err != nil {
		return err
	}

	var baseline model.Genome
	switch {
	case *genomeJSON != "" && *inPath != "":
		return usageError("trial takes -genome or -in, not both")
	case *genomeJSON != "":
		if err := json.Unmarshal([]byte(*genomeJSON), &baseline); err != nil {
			return fmt.Errorf("decode -genome: %w", err)
		}
	case *inPath != "":
		individuals, err := readIndividuals(*inPath)
		if err != nil {
			return err
		}
		if len(individuals) == 0 {
			return fmt.Errorf("%s holds no individuals", *inPath)
		}
		baseline = individuals[0].Genome
	default:
		return usageError("trial requires -genome or -in")
	}

	client, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	report, err := client.Trial(ctx, genopt.TrialRequest{
		Profile:  *profile,
		Config:   cfg,
		Baseline: baseline,
		Trials:   *trials,
		Seed:     *seed,
	})
	if err != nil {
		return err
	}
	if *artifactsDir != "" {
		engineCfg, err := resolveMutationConfig(ctx, client, *profile, cfg)
		if err != nil {
			return err
		}
		artifacts := stats.TrialArtifacts{
			Config: stats.TrialConfig{
				TrialID:      uuid.NewString(),
				Profile:      *profile,
				Kind:         engineCfg.Kind,
				Probability:  engineCfg.Probability,
				SearchSpace:  engineCfg.Space,
				MaxAttempts:  engineCfg.MaxAttempts,
				Baseline:     baseline,
				Trials:       *trials,
				Seed:         *seed,
				CreatedAtUTC: time.Now().UTC().Format(time.RFC3339Nano),
			},
			Report: report,
		}
		trialDir, err := stats.WriteTrialArtifacts(*artifactsDir, artifacts)
		if err != nil {
			return err
		}
		if err := stats.AppendTrialIndex(*artifactsDir, artifacts.IndexEntry()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "trial artifacts written dir=%s\n", trialDir)
	}
	if *jsonOut {
		return writeJSON(os.Stdout, report)
	}
	printTrialReport(os.Stdout, report)
	return nil
}

// resolveMutationConfig returns the effective engine configuration for a
// profile or inline config, with defaults applied.
func resolveMutationConfig(ctx context.Context, client *genopt.Client, profile string, cfg *genopt.MutationConfig) (evo.Config, error) {
	if profile != "" {
		item, err := client.Profile(ctx, profile)
		if err != nil {
			return evo.Config{}, err
		}
		cfg = &item.Config
	}
	if cfg == nil {
		return evo.Config{}, errors.New("a profile or an inline config is required")
	}
	engine, err := cfg.Engine()
	if err != nil {
		return evo.Config{}, err
	}
	return engine.Config(), nil
}

func runTrials(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("trials", flag.ContinueOnError)
	dir := fs.String("artifacts-dir", trialsDir, "trial artifacts directory")
	limit := fs.Int("limit", 10, "max entries to show (0 = all)")
	showID := fs.String("id", "", "print the stored report for one trial")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit < 0 {
		return fmt.Errorf("limit must be >= 0, got %d", *limit)
	}

	if *showID != "" {
		report, ok, err := stats.ReadTrialReport(*dir, *showID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("trial not found: %s", *showID)
		}
		printTrialReport(os.Stdout, report)
		return nil
	}

	entries, err := stats.ListTrialIndex(*dir)
	if err != nil {
		return err
	}
	if *limit > 0 && len(entries) > *limit {
		entries = entries[:*limit]
	}
	printTrialIndex(os.Stdout, entries)
	return nil
}

func runProfileSave(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile-save", flag.ContinueOnError)
	sf := bindStoreFlags(fs)
	cf := bindConfigFlags(fs)
	name := fs.String("name", "", "profile name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return usageError("profile-save requires -name")
	}
	cfg, err := cf.load(fs)
	if err != nil {
		return err
	}
	if cfg == nil {
		return usageError("profile-save requires -config")
	}

	client, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	item, err := client.SaveProfile(ctx, genopt.SaveProfileRequest{Name: *name, Config: *cfg})
	if err != nil {
		return err
	}
	fmt.Printf("profile saved name=%s id=%s kind=%s probability=%g\n", item.Name, item.ID, item.Config.Kind, item.Config.Probability)
	return nil
}

func runProfiles(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profiles", flag.ContinueOnError)
	sf := bindStoreFlags(fs)
	name := fs.String("name", "", "show one profile")
	remove := fs.Bool("delete", false, "delete the profile given by -name")
	jsonOut := fs.Bool("json", false, "print as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *remove && *name == "" {
		return usageError("profiles -delete requires -name")
	}

	client, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if *remove {
		if err := client.DeleteProfile(ctx, *name); err != nil {
			return err
		}
		fmt.Printf("profile deleted name=%s\n", *name)
		return nil
	}
	if *name != "" {
		item, err := client.Profile(ctx, *name)
		if err != nil {
			return err
		}
		if *jsonOut {
			return writeJSON(os.Stdout, profileView(item))
		}
		engine, err := item.Config.Engine()
		if err != nil {
			return err
		}
		printConfig(os.Stdout, engine.Config())
		return nil
	}

	items, err := client.Profiles(ctx)
	if err != nil {
		return err
	}
	if *jsonOut {
		views := make([]profileJSON, 0, len(items))
		for _, item := range items {
			views = append(views, profileView(item))
		}
		return writeJSON(os.Stdout, views)
	}
	printProfiles(os.Stdout, items)
	return nil
}

func runKinds(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("kinds", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, kind := range evo.ListLocusSelectors() {
		fmt.Println(kind)
	}
	return nil
}

// readIndividuals accepts a JSON array whose elements are either bare
// genome arrays or {"id", "genome"} objects.
func readIndividuals(path string) ([]model.Individual, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	out := make([]model.Individual, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		var ind model.Individual
		if len(item) > 0 && item[0] == '[' {
			if err := json.Unmarshal(item, &ind.Genome); err != nil {
				return nil, fmt.Errorf("decode %s entry %d: %w", path, i, err)
			}
		} else if err := json.Unmarshal(item, &ind); err != nil {
			return nil, fmt.Errorf("decode %s entry %d: %w", path, i, err)
		}
		out = append(out, ind)
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: genoptctl <validate|mutate|trial|trials|profile-save|profiles|kinds> [flags]", msg)
}
