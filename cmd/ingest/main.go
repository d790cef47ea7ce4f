package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nyaysetu/backend/internal/config"
	"nyaysetu/backend/internal/retrieval"
	"nyaysetu/backend/internal/store"
)

type options struct {
	configPath string
	files      []string
	batchSize  int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "ingest",
		Short:         "Load legal knowledge into the nyaysetu stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("NYAYSETU_CONFIG_FILE"), "optional YAML config file")

	documents := &cobra.Command{
		Use:   "documents",
		Short: "Embed normalized legal JSON into the vector store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			return ingestDocuments(cmd.Context(), cfg, opts.files, opts.batchSize)
		},
	}
	documents.Flags().StringSliceVar(&opts.files, "file", nil, "normalized legal JSON file (repeatable)")
	documents.Flags().IntVar(&opts.batchSize, "batch", 64, "documents embedded per batch")
	_ = documents.MarkFlagRequired("file")

	sections := &cobra.Command{
		Use:   "sections",
		Short: "Upsert IPC section text into the section store",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			return ingestSections(cfg, opts.files)
		},
	}
	sections.Flags().StringSliceVar(&opts.files, "file", nil, "IPC sections JSON file (repeatable)")
	_ = sections.MarkFlagRequired("file")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Report how much knowledge each store holds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			return printStats(cmd.Context(), cfg)
		},
	}

	root.AddCommand(documents, sections, stats)
	return root
}

func loadConfig(path string) (*config.Config, error) {
	config.LoadDotEnv(".env", "../../.env")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Log.Apply(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ingestDocuments(ctx context.Context, cfg *config.Config, files []string, batchSize int) error {
	if batchSize <= 0 {
		return errors.New("batch size must be positive")
	}
	var docs []retrieval.Document
	seen := make(map[string]struct{})
	for _, path := range files {
		loaded, err := retrieval.LoadKnowledgeFile(path)
		if err != nil {
			return err
		}
		added := 0
		for _, doc := range loaded {
			if _, dup := seen[doc.ID]; dup {
				continue
			}
			seen[doc.ID] = struct{}{}
			docs = append(docs, doc)
			added++
		}
		logrus.WithFields(logrus.Fields{"file": path, "documents": added}).Info("loaded knowledge file")
	}
	if len(docs) == 0 {
		return errors.New("no documents to ingest")
	}

	vectors, err := retrieval.Open(ctx, cfg.Retrieval.OpenConfig())
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer vectors.Close()

	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))
		if err := vectors.Add(ctx, docs[start:end]); err != nil {
			return fmt.Errorf("add documents %d-%d: %w", start, end, err)
		}
		logrus.WithFields(logrus.Fields{"done": end, "total": len(docs)}).Info("embedded batch")
	}

	count, err := vectors.Count(ctx)
	if err != nil {
		return err
	}
	logrus.WithField("documents", count).Info("vector store updated")
	return nil
}

func ingestSections(cfg *config.Config, files []string) error {
	db, err := store.Open(cfg.Database.Path, true)
	if err != nil {
		return fmt.Errorf("open section store: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close database")
		}
	}()

	for _, path := range files {
		sections, err := store.LoadSectionsFile(path)
		if err != nil {
			return err
		}
		if err := db.UpsertSections(sections); err != nil {
			return fmt.Errorf("upsert %s: %w", path, err)
		}
		logrus.WithFields(logrus.Fields{"file": path, "sections": len(sections)}).Info("sections upserted")
	}

	total, err := db.CountSections()
	if err != nil {
		return err
	}
	logrus.WithField("sections", total).Info("section store updated")
	return nil
}

func printStats(ctx context.Context, cfg *config.Config) error {
	db, err := store.Open(cfg.Database.Path, true)
	if err != nil {
		return fmt.Errorf("open section store: %w", err)
	}
	defer db.Close()
	sections, err := db.CountSections()
	if err != nil {
		return err
	}
	fmt.Printf("sections: %d\n", sections)

	vectors, err := retrieval.Open(ctx, cfg.Retrieval.OpenConfig())
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer vectors.Close()
	documents, err := vectors.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("documents (%s): %d\n", cfg.Retrieval.Backend, documents)
	return nil
}
