package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-stepform/internal/config"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/renderers/tui"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/sink"
	"github.com/goliatone/go-stepform/pkg/validation"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults to $STEPFORM_CONFIG)")
	catalog := flag.String("catalog", "", "YAML step catalog overriding the built-in steps")
	answers := flag.String("answers", "", "YAML answer script; runs without prompting")
	exportOpenAPI := flag.Bool("export-openapi", false, "print the step schemas as an OpenAPI document and exit")
	repeat := flag.Bool("repeat", false, "offer a new application after each submission")
	validate := flag.String("validate", "", "check a submission JSON file (one object or an array) against the step contract and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *catalog != "" {
		cfg.Catalog.Path = *catalog
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(cfg.Log, os.Stderr)

	registry, err := loadRegistry(ctx, cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	if *exportOpenAPI {
		doc := registry.OpenAPI("stepform", "1.0.0")
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode OpenAPI document: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	if *validate != "" {
		if !validateFile(registry, *validate) {
			os.Exit(1)
		}
		return
	}

	target, closeSink, err := openSink(cfg.Sink, logger)
	if err != nil {
		log.Fatalf("Failed to open sink: %v", err)
	}
	defer closeSink()

	controller, err := wizard.New(target, wizard.WithRegistry(registry), wizard.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create form: %v", err)
	}

	receipt, err := receiptRenderer(cfg.Output)
	if err != nil {
		log.Fatalf("Failed to prepare receipt renderer: %v", err)
	}

	options := []tui.Option{
		tui.WithReceiptRenderer(receipt),
		tui.WithLogger(logger),
		tui.WithRepeat(*repeat),
	}
	if *answers != "" {
		script, err := tui.LoadScriptFile(*answers)
		if err != nil {
			log.Fatalf("Failed to load answers: %v", err)
		}
		options = append(options, tui.WithPromptDriver(tui.NewScriptedDriver(script, os.Stdout)))
	}

	renderer, err := tui.New(controller, options...)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	outcome, err := renderer.Run(ctx)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			closeSink()
			os.Exit(130)
		}
		log.Fatalf("Form failed: %v", err)
	}
	logger.Info("session finished",
		slog.Int("submissions", outcome.Submissions),
		slog.String("submission_id", outcome.SubmissionID),
	)
}

func validateFile(registry *schema.Registry, path string) bool {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open submissions: %v", err)
	}
	defer f.Close()

	subs, err := validation.DecodeSubmissions(f)
	if err != nil {
		log.Fatalf("Failed to read submissions: %v", err)
	}

	contract := validation.NewContract(registry)
	valid := true
	for _, sub := range subs {
		result := contract.ValidateSubmission(sub)
		if result.Valid {
			fmt.Printf("%s: ok\n", sub.ID)
			continue
		}
		valid = false
		for _, issue := range result.Issues {
			fmt.Printf("%s: %s.%s: %s\n", sub.ID, issue.Step, issue.Field, issue.Message)
		}
	}
	return valid
}

func newLogger(cfg config.LogConfig, out io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

func loadRegistry(ctx context.Context, path string) (*schema.Registry, error) {
	if path == "" {
		return schema.Default(), nil
	}
	return schema.LoadCatalog(ctx, schema.SourceFromFile(path), nil)
}

func openSink(cfg config.SinkConfig, logger *slog.Logger) (wizard.Sink, func(), error) {
	noop := func() {}
	switch cfg.Kind {
	case config.SinkMemory:
		return sink.NewMemory(), noop, nil
	case config.SinkHTTP:
		target, err := sink.NewHTTP(cfg.HTTPURL, sink.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		if err != nil {
			return nil, nil, err
		}
		return target, noop, nil
	case config.SinkSQLite:
		store, err := sink.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("close sqlite sink", slog.String("error", err.Error()))
			}
		}, nil
	case config.SinkRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		target, err := sink.NewRedis(client, sink.WithStream(cfg.RedisStream), sink.WithTTL(cfg.RedisTTL))
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return target, func() {
			if err := client.Close(); err != nil {
				logger.Error("close redis client", slog.String("error", err.Error()))
			}
		}, nil
	default:
		return sink.NewLog(logger), noop, nil
	}
}

func receiptRenderer(cfg config.OutputConfig) (render.Renderer, error) {
	if cfg.Format == render.FormatPretty && cfg.Template != "" {
		return render.NewText(render.WithTemplateFile(cfg.Template))
	}
	registry, err := render.DefaultRegistry()
	if err != nil {
		return nil, err
	}
	return registry.Get(cfg.Format)
}
