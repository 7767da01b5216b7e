package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eringen/showcase"
	"github.com/eringen/showcase/cms"
)

// version is set at build time via ldflags.
var version = "dev"

var configPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "showcase",
		Short:         "News and project showcase served from a Strapi CMS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", showcase.EnvOr("SHOWCASE_CONFIG", ""), "YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web server",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "check",
			Short: "Fetch both collections and print the normalized records as YAML",
			Args:  cobra.NoArgs,
			RunE:  runCheck,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the showcase version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "showcase %s\n", version)
			},
		},
	)
	return root
}

func loadConfig() (showcase.SiteConfig, error) {
	cfg, err := showcase.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if err := showcase.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := showcase.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	app, err := showcase.New(cfg, showcase.WithLogger(logger))
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
			return err
		}
		return <-errCh
	}
}

type checkRecord struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Date      string   `yaml:"date,omitempty"`
	RawDate   string   `yaml:"raw_date,omitempty"`
	Author    string   `yaml:"author,omitempty"`
	AuthorURL string   `yaml:"author_url,omitempty"`
	Area      string   `yaml:"area,omitempty"`
	Tags      []string `yaml:"tags,omitempty"`
	Summary   string   `yaml:"summary,omitempty"`
	Body      string   `yaml:"body"`
	Images    []string `yaml:"images,omitempty"`
}

type checkReport struct {
	CMS      string        `yaml:"cms"`
	News     []checkRecord `yaml:"news"`
	Projects []checkRecord `yaml:"projects"`
	Errors   []string      `yaml:"errors,omitempty"`
}

func toCheck(r cms.Record, media cms.Media) checkRecord {
	body := "empty"
	switch {
	case r.Body.IsBlocks():
		body = fmt.Sprintf("%d blocks", len(r.Body.Blocks))
	case !r.Body.IsZero():
		body = fmt.Sprintf("markdown, %d bytes", len(r.Body.Markdown))
	}
	out := checkRecord{
		ID: r.ID, Title: r.Title, Date: r.Date, RawDate: r.RawDate,
		Author: r.Author, AuthorURL: r.AuthorURL, Area: r.Area,
		Tags: r.Tags, Summary: r.Summary, Body: body,
	}
	for _, img := range r.Images {
		out.Images = append(out.Images, media.URL(img.URL))
	}
	return out
}

// runCheck prints what the normalizer makes of the live CMS content, which is
// the quickest way to spot schema drift.
func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := cms.NewClient(orDefault(cfg.APIURL, "http://localhost:1337"), cms.WithNewsSort(cfg.NewsSort))

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	report := checkReport{CMS: client.BaseURL()}
	for _, kind := range []cms.Kind{cms.News, cms.Project} {
		records, err := client.List(ctx, kind)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", kind, err))
			continue
		}
		for _, r := range records {
			cr := toCheck(r, client.Media())
			if kind == cms.Project {
				report.Projects = append(report.Projects, cr)
			} else {
				report.News = append(report.News, cr)
			}
		}
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if len(report.Errors) > 0 {
		return fmt.Errorf("%d collection(s) failed", len(report.Errors))
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
