package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"nyaysetu/backend/internal/ai"
	"nyaysetu/backend/internal/api"
	"nyaysetu/backend/internal/chat"
	"nyaysetu/backend/internal/classifier"
	"nyaysetu/backend/internal/config"
	"nyaysetu/backend/internal/ipc"
	"nyaysetu/backend/internal/retrieval"
	"nyaysetu/backend/internal/scoring"
	"nyaysetu/backend/internal/store"
)

func main() {
	config.LoadDotEnv(".env", "../../.env")

	cfg, err := config.Load(os.Getenv("NYAYSETU_CONFIG_FILE"))
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.Log.Apply(); err != nil {
		logrus.Fatalf("configure logging: %v", err)
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.Database.Path, cfg.Database.Silent)
	if err != nil {
		logrus.Fatalf("open section store: %v", err)
	}
	defer db.Close()
	if count, err := db.CountSections(); err == nil {
		logrus.WithField("sections", count).Info("section store ready")
	}

	predictor, err := newPredictor(cfg, db)
	if err != nil {
		logrus.Fatalf("create ipc predictor: %v", err)
	}

	model, closeModel := newCompleter(ctx, cfg.LLM)
	defer closeModel()

	var retriever retrieval.Retriever
	vectors, err := retrieval.Open(ctx, cfg.Retrieval.OpenConfig())
	if err != nil {
		logrus.WithError(err).Warn("vector store unavailable; legal questions will get the degraded reply")
	} else {
		defer vectors.Close()
		retriever = vectors
	}

	pipeline := chat.NewPipeline(chat.Config{
		RetrievalTimeout: cfg.Retrieval.Timeout,
		ModelTimeout:     cfg.LLM.Timeout,
	}, chat.NewDocumentCatalog(), retriever, model)

	metrics, err := api.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logrus.Fatalf("register metrics: %v", err)
	}

	server, err := api.NewServer(api.Config{
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		AllowVercelPreviews: cfg.Server.AllowVercelPreviews,
		Chat:                pipeline,
		IPC:                 predictor,
		Metrics:             metrics,
	})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := strconv.Itoa(cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	logrus.Infof("starting nyaysetu backend on :%s", port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatalf("server exited: %v", err)
	}
	logrus.Info("server stopped")
}

func newPredictor(cfg *config.Config, db *store.Database) (*ipc.Service, error) {
	rules, err := scoring.NewRuleScorer(cfg.Data.RulesPath)
	if err != nil {
		return nil, err
	}
	book, err := scoring.NewExplanationBook(cfg.Data.ExplanationsPath)
	if err != nil {
		return nil, err
	}

	var cls classifier.Classifier
	client, err := classifier.NewClient(classifier.Config{
		BaseURL: cfg.Classifier.URL,
		APIKey:  cfg.Classifier.APIKey,
		Timeout: cfg.Classifier.Timeout,
	})
	switch {
	case errors.Is(err, classifier.ErrMissingURL):
		logrus.Warn("classifier url not configured; ipc predictions will degrade")
		cls = classifier.Offline{}
	case err != nil:
		return nil, err
	default:
		cls = client
	}

	return ipc.NewService(ipc.Config{ClassifierTimeout: cfg.Classifier.Timeout}, cls, rules, book, db)
}

// newCompleter builds the primary language model and its optional fallback.
// The returned func releases client resources.
func newCompleter(ctx context.Context, cfg config.LLMConfig) (ai.Completer, func()) {
	var closers []func()
	build := func(provider string) ai.Completer {
		switch provider {
		case config.ProviderOpenAI:
			client, err := ai.NewClient(ai.Config{
				APIKey:      cfg.OpenAI.APIKey,
				Model:       cfg.OpenAI.Model,
				BaseURL:     cfg.OpenAI.BaseURL,
				Temperature: cfg.OpenAI.Temperature,
				MaxTokens:   cfg.OpenAI.MaxTokens,
				Timeout:     cfg.Timeout,
			})
			if err != nil {
				logrus.WithError(err).Warn("openai-compatible model disabled")
				return nil
			}
			return client
		case config.ProviderGemini:
			client, err := ai.NewGeminiClient(ctx, ai.GeminiConfig{
				APIKey:      cfg.Gemini.APIKey,
				Model:       cfg.Gemini.Model,
				Temperature: cfg.Gemini.Temperature,
				MaxTokens:   cfg.Gemini.MaxTokens,
			})
			if err != nil {
				logrus.WithError(err).Warn("gemini model disabled")
				return nil
			}
			closers = append(closers, func() { _ = client.Close() })
			return client
		default:
			return nil
		}
	}

	primary := build(cfg.Provider)
	fallback := build(cfg.Fallback)
	model := ai.WithFallback(primary, fallback)
	logrus.WithFields(logrus.Fields{
		"provider": cfg.Provider,
		"fallback": cfg.Fallback,
		"enabled":  model != nil && model.Enabled(),
	}).Info("language model configured")

	return model, func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
}
