package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/meeting-insights/internal/adapter/dto"
	"github.com/johnquangdev/meeting-insights/internal/app"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-insights/internal/usecase/ai"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
	"github.com/johnquangdev/meeting-insights/pkg/logger"
	pkgvalidator "github.com/johnquangdev/meeting-insights/pkg/validator"
)

// deps holds what the commands need from the outside world
type deps struct {
	loadConfig      func() (*config.Config, error)
	pipelineOptions []ai.Option
	stdin           io.Reader
	stdout          io.Writer
	stderr          io.Writer
}

func defaultDeps() *deps {
	return &deps{
		loadConfig: config.Load,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

// pipelineFlags are the tuning overrides shared by process and import
type pipelineFlags struct {
	provider    string
	model       string
	language    string
	clusters    string
	threshold   int
	concurrency int
	out         string
	persist     bool
	verbose     bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "Text-generation provider: openai, groq, anthropic, ollama")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name (default depends on provider)")
	cmd.Flags().StringVar(&f.language, "language", "", "Language of the generated summary")
	cmd.Flags().StringVar(&f.clusters, "clusters", "", "YAML keyword cluster file for task deduplication")
	cmd.Flags().IntVar(&f.threshold, "threshold", 0, "Chunk threshold in characters (0 keeps the configured value)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Chunks processed in parallel (0 keeps the configured value)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the result JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&f.persist, "persist", false, "Store the run in the configured database, cache and archive")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log pipeline internals to stderr")
}

func (f *pipelineFlags) apply(cfg *config.Config) {
	if f.threshold > 0 {
		cfg.Pipeline.ChunkThreshold = f.threshold
	}
	if f.concurrency > 0 {
		cfg.Pipeline.ChunkConcurrency = f.concurrency
	}
	if f.clusters != "" {
		cfg.Pipeline.ClustersFile = f.clusters
	}
}

func (f *pipelineFlags) settings(base entities.Settings) entities.Settings {
	if f.provider != "" {
		base.Provider = f.provider
	}
	if f.model != "" {
		base.Model = f.model
	}
	if f.language != "" {
		base.Language = f.language
	}
	return base
}

func newRootCommand(d *deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "extract",
		Short: "Extract summaries and tasks from meeting transcripts",
		Long: `Extract summaries, decisions, open questions and deduplicated tasks from
meeting transcripts with a text-generation provider.

Provider keys and pipeline tuning are read from the environment (and .env),
the same way the API server reads them.

Examples:
  # Process a transcript file and print the result
  extract process --input meeting.json

  # Use Anthropic and write the result to a file
  extract process --input meeting.json --provider anthropic --out result.json

  # Show the keyword clusters used for task deduplication
  extract clusters`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(d.stdin)
	root.SetOut(d.stdout)
	root.SetErr(d.stderr)

	root.AddCommand(newProcessCommand(d))
	root.AddCommand(newImportCommand(d))
	root.AddCommand(newClustersCommand(d))
	root.AddCommand(newChunkCommand(d))
	root.AddCommand(newMigrateCommand(d))
	return root
}

// newProcessCommand creates the 'process' subcommand.
func newProcessCommand(d *deps) *cobra.Command {
	var (
		flags pipelineFlags
		input string
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a meeting transcript file",
		Long: `Process a meeting described by a JSON file (the body of POST /v1/meetings/process).
Use "-" to read it from stdin. Progress is printed to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(d, input)
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), d, &flags, func(ctx context.Context, svc meeting.Service, progress ai.ProgressFunc) (*ai.Result, *entities.ProcessingRun, error) {
				return svc.Process(ctx, meeting.ProcessInput{
					Meeting:    req.ToMeeting(),
					Speakers:   req.ToSpeakers(),
					Settings:   flags.settings(req.Settings.ToSettings()),
					Project:    req.Project.ToProject(),
					Source:     jobcontext.SourceCLI,
					OnProgress: progress,
					SkipCache:  req.SkipCache,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Meeting JSON file, or - for stdin")
	_ = cmd.MarkFlagRequired("input")
	flags.register(cmd)
	return cmd
}

// newImportCommand creates the 'import' subcommand.
func newImportCommand(d *deps) *cobra.Command {
	var (
		flags pipelineFlags
		title string
	)

	cmd := &cobra.Command{
		Use:   "import <transcript-id>",
		Short: "Process a completed AssemblyAI transcript",
		Long:  `Fetch a completed AssemblyAI transcript (ASSEMBLYAI_API_KEY) and process it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), d, &flags, func(ctx context.Context, svc meeting.Service, progress ai.ProgressFunc) (*ai.Result, *entities.ProcessingRun, error) {
				return svc.ImportAndProcess(ctx, meeting.ImportInput{
					TranscriptID: args[0],
					Title:        title,
					Settings:     flags.settings(entities.Settings{}),
					OnProgress:   progress,
				})
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Meeting title")
	flags.register(cmd)
	return cmd
}

type runFunc func(ctx context.Context, svc meeting.Service, progress ai.ProgressFunc) (*ai.Result, *entities.ProcessingRun, error)

func runPipeline(ctx context.Context, d *deps, flags *pipelineFlags, process runFunc) error {
	cfg, err := d.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := "warn"
	if flags.verbose {
		level = "debug"
	}
	zapLogger, err := logger.New(cfg.Server.Environment, level)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	application, err := app.New(ctx, cfg, zapLogger, app.Options{
		Infrastructure:  flags.persist,
		PipelineOptions: d.pipelineOptions,
	})
	if err != nil {
		return err
	}
	defer application.Close()

	progress := func(stage ai.Stage, fraction float64) {
		fmt.Fprintf(d.stderr, "[%3.0f%%] %s\n", fraction*100, stage)
	}

	result, run, err := process(ctx, application.Service, progress)
	if err != nil {
		return err
	}

	return writeJSON(d, flags.out, dto.NewProcessMeetingResponse(result, run))
}

// newClustersCommand creates the 'clusters' subcommand.
func newClustersCommand(d *deps) *cobra.Command {
	var (
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Print the keyword clusters used for task deduplication",
		Long: `Print the effective keyword clusters: the --clusters file, else
PIPELINE_CLUSTERS_FILE, else the built-in list. Earlier clusters win.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := d.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if file != "" {
				cfg.Pipeline.ClustersFile = file
			}
			clusters, err := app.Clusters(cfg)
			if err != nil {
				return err
			}

			doc := struct {
				Clusters []ai.KeywordCluster `yaml:"clusters" json:"clusters"`
			}{Clusters: clusters}

			switch strings.ToLower(format) {
			case "json":
				return writeJSON(d, "", doc)
			case "yaml", "":
				enc := yaml.NewEncoder(d.stdout)
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown output format %q (use yaml or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&file, "clusters", "", "YAML keyword cluster file")
	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format: yaml, json")
	return cmd
}

// newChunkCommand creates the 'chunk' subcommand.
func newChunkCommand(d *deps) *cobra.Command {
	var (
		input     string
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Show how a transcript would be split into chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(d, input)
			if err != nil {
				return err
			}
			if threshold <= 0 {
				cfg, err := d.loadConfig()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				threshold = cfg.Pipeline.ChunkThreshold
			}

			m := req.ToMeeting()
			text := ai.TranscriptText(m.Transcript, req.ToSpeakers())
			chunks := ai.Chunks(text, threshold)

			fmt.Fprintf(d.stdout, "transcript: %d chars, threshold %d, %d chunk(s)\n", len(text), threshold, len(chunks))
			offset := 0
			for i, c := range chunks {
				fmt.Fprintf(d.stdout, "%3d  offset=%-8d chars=%-7d %q\n", i+1, offset, len(c), preview(c, 48))
				offset += len(c)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Meeting JSON file, or - for stdin")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Chunk threshold in characters (0 uses the configured value)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// newMigrateCommand creates the 'migrate' subcommand.
func newMigrateCommand(d *deps) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the embedded database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := migrate.Up
			if args[0] == "down" {
				direction = migrate.Down
				if limit == 0 {
					limit = 1
				}
			}

			cfg, err := d.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := database.NewPostgresDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			n, err := database.Migrate(db, direction, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(d.stdout, "applied %d migration(s) %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "max", 0, "Maximum number of migrations (0 = all for up, 1 for down)")
	return cmd
}

func readRequest(d *deps, path string) (*dto.ProcessMeetingRequest, error) {
	var r io.Reader
	if path == "-" {
		r = d.stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req dto.ProcessMeetingRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}
	if err := pkgvalidator.New().Validate(&req); err != nil {
		var problems []string
		for field, tag := range pkgvalidator.Fields(err) {
			problems = append(problems, field+" ("+tag+")")
		}
		return nil, fmt.Errorf("invalid input: %s", strings.Join(problems, ", "))
	}
	return &req, nil
}

func writeJSON(d *deps, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = d.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	fmt.Fprintf(d.stderr, "✅ Result written to %s\n", path)
	return nil
}

func preview(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "…"
}

