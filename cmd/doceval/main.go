// Command doceval evaluates documents against compliance rules.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/doceval/internal/adapters/driven/ai"
	"github.com/custodia-labs/doceval/internal/adapters/driven/config/file"
	"github.com/custodia-labs/doceval/internal/adapters/driven/storage/kv"
	"github.com/custodia-labs/doceval/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/doceval/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/doceval/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/doceval/internal/adapters/driving/cli"
	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
	"github.com/custodia-labs/doceval/internal/core/services"
	"github.com/custodia-labs/doceval/internal/extractors"
	"github.com/custodia-labs/doceval/internal/logger"
)

// version is set via -ldflags at build time.
var version = "dev"

const redisPingTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	store, err := openStorage(ctx, settings.Storage)
	if err != nil {
		return err
	}
	defer store.close()

	aiResult := ai.Initialise(ctx, *settings, prompts)
	defer aiResult.Close()

	rules := services.NewRuleRegistry()
	if err := file.ApplyRules(settings.Rules.File, rules); err != nil {
		logger.Warn("Ignoring rules file %s: %v", settings.Rules.File, err)
	}

	evaluator := services.NewEvaluator(
		rules,
		aiResult.VectorIndex,
		aiResult.EmbeddingService,
		aiResult.Reasoner,
		store.docs,
		settings.Evaluation,
	)

	documentService := services.NewDocumentService(
		store.docs,
		store.results,
		aiResult.VectorIndex,
		aiResult.EmbeddingService,
		extractors.Default(),
		evaluator,
	)

	if n, err := documentService.Reindex(ctx); err != nil {
		logger.Warn("Reindex failed: %v", err)
	} else {
		logger.Debug("Indexed %d stored embeddings", n)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Document:  documentService,
		Settings:  settingsService,
		Rules:     rules,
		RulesFile: settings.Rules.File,
	})

	return cli.ExecuteContext(ctx)
}

// storage bundles the persistence ports chosen by the storage backend.
type storage struct {
	docs    driven.DocumentStore
	results driven.ResultStore
	close   func()
}

func openStorage(ctx context.Context, settings domain.StorageSettings) (*storage, error) {
	switch settings.Backend {
	case domain.StorageBackendMemory:
		if settings.KeyValue {
			store := kv.New(memory.NewKeyValueStore())
			return &storage{docs: store, results: store, close: func() {}}, nil
		}
		store := memory.NewDocumentStore()
		return &storage{docs: store, results: store, close: func() {}}, nil

	case domain.StorageBackendRedis:
		client := redis.NewKeyValueStore(redis.Config{
			Addr:     settings.RedisAddr,
			Password: settings.RedisPassword,
			DB:       settings.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx); err != nil {
			client.Close()
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		store := kv.New(client)
		return &storage{docs: store, results: store, close: func() { client.Close() }}, nil

	case domain.StorageBackendSQLite, "":
		db, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		if settings.KeyValue {
			store := kv.New(db.KeyValueStore())
			return &storage{docs: store, results: store, close: func() { db.Close() }}, nil
		}
		return &storage{docs: db.DocumentStore(), results: db.ResultStore(), close: func() { db.Close() }}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported storage backend %q", domain.ErrValidation, settings.Backend)
	}
}
