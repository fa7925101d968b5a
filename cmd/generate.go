package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/kayz/docsynth/internal/assemble"
	"github.com/kayz/docsynth/internal/catalog"
	"github.com/kayz/docsynth/internal/config"
	"github.com/kayz/docsynth/internal/llm"
	"github.com/kayz/docsynth/internal/logger"
	"github.com/kayz/docsynth/internal/persist"
	"github.com/kayz/docsynth/internal/sampling"
)

var (
	generateCount      int
	generatePromptOnly bool
	generateSeed       int64
	generateCron       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the generation pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("count") {
			cfg.Profiles.Count = generateCount
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = generateSeed
		}
		if generatePromptOnly {
			cfg.LLM.Enabled = false
		}

		if generateCron == "" {
			return runPipeline(cfg)
		}
		return runScheduled(cfg, generateCron)
	},
}

func init() {
	generateCmd.Flags().IntVar(&generateCount, "count", 0,
		"Override profile_selection.count (-1 for one pass over all profiles)")
	generateCmd.Flags().BoolVar(&generatePromptOnly, "prompt-only", false,
		"Skip the LLM call and record prompts only")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0,
		"Fix the random seed for a reproducible run (0 = time-seeded)")
	generateCmd.Flags().StringVar(&generateCron, "cron", "",
		"Repeat the run on a cron schedule (e.g. \"0 2 * * *\")")
	rootCmd.AddCommand(generateCmd)
}

// runScheduled runs the pipeline once, then repeats it on the given schedule
// until interrupted.
func runScheduled(cfg *config.Config, spec string) error {
	if err := runPipeline(cfg); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if err := runPipeline(cfg); err != nil {
			logger.Error("scheduled run failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	c.Start()
	logger.Info("scheduled generation with cron spec %q", spec)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx := c.Stop()
	<-ctx.Done()
	return nil
}

// pipeline holds everything loaded once per run.
type pipeline struct {
	cfg        *config.Config
	profiles   *catalog.ProfileCatalog
	structures *catalog.StructureCatalog
	engine     *sampling.Engine
	template   *assemble.PromptTemplate
	roster     *catalog.Roster
	provider   llm.Provider
	store      *persist.Store
	writer     *persist.Writer

	// Cursors are created per run so seeded runs start from a clean cycle.
	profileCursor *sampling.Cursor
	structCursor  *sampling.Cursor
}

func runPipeline(cfg *config.Config) error {
	p, err := loadPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.store.Close()
	return p.run()
}

func loadPipeline(cfg *config.Config) (*pipeline, error) {
	profiles, err := catalog.LoadProfiles(cfg.ProfilesDir(), cfg.Profiles.Domain, cfg.Profiles.Files)
	if err != nil {
		return nil, err
	}
	structures, err := catalog.LoadStructures(cfg.StructuresDir(), cfg.Profiles.Domain, cfg.Structures.Enabled)
	if err != nil {
		return nil, err
	}

	var families []sampling.Family
	if cfg.Prompt.IncludeStyle && cfg.Style.File != "" {
		fam, err := sampling.LoadFamily(cfg.SamplingPath(cfg.Style.File), "style")
		if err != nil {
			return nil, err
		}
		families = append(families, fam)
	}
	if cfg.Prompt.IncludeContent && cfg.Content.File != "" {
		fam, err := sampling.LoadFamily(cfg.SamplingPath(cfg.Content.File), "content")
		if err != nil {
			return nil, err
		}
		families = append(families, fam)
	}

	template, err := assemble.LoadTemplate(cfg.TemplatePath())
	if err != nil {
		return nil, err
	}

	var roster *catalog.Roster
	if cfg.Roster.Enabled {
		roster, err = catalog.LoadRoster(cfg.RosterPath())
		if err != nil {
			return nil, err
		}
	}

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, err
	}

	store, err := persist.NewStore(filepath.Join(cfg.OutputDir(), ".docsynth.db"))
	if err != nil {
		return nil, err
	}

	return &pipeline{
		cfg:        cfg,
		profiles:   profiles,
		structures: structures,
		engine:     sampling.NewEngine(sampling.NewCatalog(families...)),
		template:   template,
		roster:     roster,
		provider:   provider,
		store:      store,
		writer:     persist.NewWriter(cfg.OutputDir()),
	}, nil
}

func (p *pipeline) run() error {
	cfg := p.cfg
	var err error

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if cfg.Output.SkipExisting {
		existing, err := p.store.ExistingProfileIDs()
		if err != nil {
			return err
		}
		filtered, removed := p.profiles.FilterExisting(existing)
		logger.Info("skip_existing: filtered out %d already generated profiles", removed)
		if filtered.Count() == 0 {
			fmt.Println("All profiles already generated, nothing to do")
			return nil
		}
		p.profiles = filtered
	}

	p.profileCursor, err = sampling.NewCursor(cfg.Profiles.Mode, rng)
	if err != nil {
		return err
	}
	p.structCursor, err = sampling.NewCursor(cfg.Structures.Mode, rng)
	if err != nil {
		return err
	}

	total := cfg.Profiles.Count
	if total == -1 {
		total = p.profiles.Count()
	}

	runID, err := p.store.BeginRun(cfg.Profiles.Domain, cfg.Profiles.Mode)
	if err != nil {
		return err
	}

	action := "prompts"
	if p.provider != nil {
		action = "documents"
	}
	fmt.Printf("Generating %d %s in '%s' mode (%d profiles, %d structures)...\n",
		total, action, cfg.Profiles.Mode, p.profiles.Count(), p.structures.Count())
	logger.Info("run %s started: domain=%s mode=%s total=%d seed=%d",
		runID, cfg.Profiles.Domain, cfg.Profiles.Mode, total, seed)

	generated, failed := 0, 0
	for i := 1; i <= total; i++ {
		rec, err := p.generateOne(rng)
		if err != nil {
			if p.provider != nil && isDeliveryError(err) {
				failed++
				logger.Error("generation failed: %v", err)
				fmt.Printf("[%d/%d] error: %v\n", i, total, err)
				continue
			}
			// Core failures (config, template, index) abort the run: a
			// degraded prompt must not silently poison the output set.
			p.store.FinishRun(runID, generated, failed)
			return err
		}

		generated++
		fmt.Printf("[%d/%d] Generated: %s\n", i, total, rec.DocID)

		if _, err := p.writer.Write(rec); err != nil {
			p.store.FinishRun(runID, generated, failed)
			return err
		}
		if err := p.store.IndexDocument(runID, rec); err != nil {
			p.store.FinishRun(runID, generated, failed)
			return err
		}
	}

	if err := p.store.FinishRun(runID, generated, failed); err != nil {
		return err
	}

	fmt.Printf("Generated %d %s (%d failed)\nSaved to: %s\n", generated, action, failed, p.writer.Dir())
	logger.Info("run %s finished: generated=%d failed=%d", runID, generated, failed)
	return nil
}

// generateOne produces one record: pick a profile and a structure, resolve
// the sampled requirements, assemble the prompt, and optionally call the LLM.
func (p *pipeline) generateOne(rng *rand.Rand) (persist.Record, error) {
	pIdx, err := p.profileCursor.Next(p.profiles.Count())
	if err != nil {
		return persist.Record{}, err
	}
	sIdx, err := p.structCursor.Next(p.structures.Count())
	if err != nil {
		return persist.Record{}, err
	}

	profile, err := p.profiles.Get(pIdx)
	if err != nil {
		return persist.Record{}, err
	}
	structure, err := p.structures.Get(sIdx)
	if err != nil {
		return persist.Record{}, err
	}

	sel, err := p.engine.Resolve(rng)
	if err != nil {
		return persist.Record{}, err
	}

	if p.roster != nil {
		sampled := p.roster.Sample(rng)
		sampled["names_locations"] = catalog.FormatBlock(sampled)
		profile = profile.Merge(sampled)
	}

	prompt, err := assemble.Assemble(p.template, profile, structure, sel)
	if err != nil {
		return persist.Record{}, err
	}

	timestamp := persist.Timestamp(time.Now())

	content := ""
	if p.provider != nil {
		logger.Info("generating content for %s_%s", structure.Name, profile.Name)
		response, err := p.callProvider(prompt)
		if err != nil {
			return persist.Record{}, &deliveryError{doc: structure.Name + "_" + profile.Name, err: err}
		}
		content = llm.ExtractOutput(response)
		logger.Info("generated content for %s_%s (length=%d chars)", structure.Name, profile.Name, len(content))
	}

	return persist.NewRecord(structure.Name, profile.Name, timestamp, prompt, content), nil
}

func (p *pipeline) callProvider(prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(p.cfg.LLM.TimeoutSeconds)*time.Second)
	defer cancel()
	return p.provider.Generate(ctx, prompt)
}

// deliveryError marks an LLM delivery failure, which is counted and skipped
// rather than aborting the whole run.
type deliveryError struct {
	doc string
	err error
}

func (e *deliveryError) Error() string {
	return fmt.Sprintf("%s: %v", e.doc, e.err)
}

func (e *deliveryError) Unwrap() error {
	return e.err
}

func isDeliveryError(err error) bool {
	var de *deliveryError
	return errors.As(err, &de)
}
