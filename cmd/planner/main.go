package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/core/llm"
	"github.com/Airohh/Appli-Food-Course/internal/core/pipeline"
	"github.com/Airohh/Appli-Food-Course/internal/core/spoonacular"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/cache"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/notify"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type cliArgs struct {
	mode          string
	query         string
	stockPath     string
	dryRun        bool
	noLLM         bool
	noLLMFallback bool
	refreshStock  bool
	week          string
	mealPlanStart string
}

func parseArgs() cliArgs {
	var args cliArgs
	flag.StringVar(&args.mode, "mode", "", "execution mode: mock (simulated APIs) or prod (real calls)")
	flag.StringVar(&args.query, "query", "", "recipe search term")
	flag.StringVar(&args.stockPath, "stock-path", "", "path to the stock snapshot JSON (default from config)")
	flag.BoolVar(&args.dryRun, "dry-run", false, "write nothing and call no external service, log diffs instead")
	flag.BoolVar(&args.noLLM, "no-llm", false, "disable assistant selection and cleanup")
	flag.BoolVar(&args.noLLMFallback, "no-llm-fallback", false, "do not ask the assistant to infer missing quantities")
	flag.BoolVar(&args.refreshStock, "refresh-stock", false, "pull the stock from the workspace before running")
	flag.StringVar(&args.week, "week", "", "week label override (default: current ISO week)")
	flag.StringVar(&args.mealPlanStart, "mealplan-start-date", "", "meal plan start date YYYY-MM-DD (default: today)")
	flag.Parse()

	if args.mode != "mock" && args.mode != "prod" {
		fmt.Fprintln(os.Stderr, "usage: -mode must be mock or prod")
		flag.Usage()
		os.Exit(2)
	}
	return args
}

func main() {
	args := parseArgs()

	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	if args.mode == "mock" {
		cfg.Spoonacular.UseMock = true
		cfg.LLM.APIKey = ""
		cfg.Notion.Token = ""
		cfg.Ntfy.Topic = ""
	}

	stockPath := args.stockPath
	if stockPath == "" {
		stockPath = cfg.Planner.StockPath
	}

	var mealPlanStart time.Time
	if args.mealPlanStart != "" {
		mealPlanStart, err = time.Parse("2006-01-02", args.mealPlanStart)
		if err != nil {
			fmt.Printf("Invalid -mealplan-start-date %q: %v\n", args.mealPlanStart, err)
			os.Exit(2)
		}
	}

	recipes := spoonacular.NewClient(cfg.Spoonacular)

	var assistant pipeline.Assistant
	if cfg.LLM.APIKey != "" && !args.noLLM {
		cacheService, err := cache.NewService(&cfg.Cache)
		if err != nil {
			common.LogWarn("Completion cache unavailable, continuing without it", zap.Error(err))
			cacheService = nil
		}
		assistant = llm.NewClient(cfg.LLM, cacheService)
	}

	workspace := pipeline.NewWorkspace(cfg.Notion)
	notifier := notify.NewNotifier(cfg.Ntfy)

	p := pipeline.New(cfg, recipes, assistant, workspace, notifier)
	if !p.TryAcquire() {
		common.LogFatal("pipeline already running")
	}
	defer p.Release()

	opts := pipeline.Options{
		Query:         args.query,
		DryRun:        args.dryRun,
		LLMEnabled:    assistant != nil,
		LLMFallback:   !args.noLLMFallback,
		RefreshStock:  args.refreshStock,
		SyncWorkspace: cfg.Notion.Token != "" && !args.dryRun,
		StockPath:     stockPath,
		MealPlanStart: mealPlanStart,
		Week:          args.week,
	}

	result, err := p.Run(context.Background(), common.GenerateUUID(), opts)
	if err != nil {
		common.LogError("Pipeline run failed", zap.Error(err))
		os.Exit(1)
	}

	printSummary(result, args.dryRun)
}

func printSummary(result *pipeline.Result, dryRun bool) {
	fmt.Println()
	fmt.Printf("Semaine        : %s\n", result.Week)
	fmt.Printf("Candidats      : %d\n", result.Candidates)
	fmt.Printf("Recettes       : %d\n", result.Selected)
	fmt.Printf("Articles       : %d\n", result.Items)
	fmt.Printf("Fusion         : %d -> %d (%d couverts par le stock)\n",
		result.MergeStats.Input, result.MergeStats.Output, result.MergeStats.SkippedStock)
	if result.RecipeSync.Created+result.RecipeSync.Updated > 0 {
		fmt.Printf("Sync recettes  : %d créées, %d mises à jour, %d erreurs\n",
			result.RecipeSync.Created, result.RecipeSync.Updated, result.RecipeSync.Errors)
	}
	if result.MealPlanSync.Created+result.MealPlanSync.Updated > 0 {
		fmt.Printf("Sync plan repas: %d créées, %d mises à jour, %d erreurs\n",
			result.MealPlanSync.Created, result.MealPlanSync.Updated, result.MealPlanSync.Errors)
	}
	if result.GrocerySync.Created+result.GrocerySync.Updated > 0 {
		fmt.Printf("Sync courses   : %d créées, %d mises à jour, %d erreurs\n",
			result.GrocerySync.Created, result.GrocerySync.Updated, result.GrocerySync.Errors)
	}
	fmt.Printf("Durée          : %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	if dryRun {
		fmt.Println("(dry-run: aucun fichier écrit, aucun appel externe)")
	}
}
