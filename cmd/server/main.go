// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/caselight/legalqa-gw/pkg/adapters/http"
	"github.com/caselight/legalqa-gw/pkg/chunker"
	"github.com/caselight/legalqa-gw/pkg/core/api"
	"github.com/caselight/legalqa-gw/pkg/core/config"
	"github.com/caselight/legalqa-gw/pkg/core/services"
	"github.com/caselight/legalqa-gw/pkg/docstore"
	"github.com/caselight/legalqa-gw/pkg/observability/logging"
	"github.com/caselight/legalqa-gw/pkg/storage"
	"github.com/caselight/legalqa-gw/pkg/vectorstore"

	// Register pluggable backends.
	_ "github.com/caselight/legalqa-gw/pkg/docstore/filesystem"
	_ "github.com/caselight/legalqa-gw/pkg/docstore/memory"
	_ "github.com/caselight/legalqa-gw/pkg/docstore/s3"
	_ "github.com/caselight/legalqa-gw/pkg/storage/memory"
	_ "github.com/caselight/legalqa-gw/pkg/storage/postgres"
	_ "github.com/caselight/legalqa-gw/pkg/storage/sqlite"
	_ "github.com/caselight/legalqa-gw/pkg/vectorstore/memory"
	_ "github.com/caselight/legalqa-gw/pkg/vectorstore/milvus"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 8080, "HTTP port to listen on")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Print version
	if *version {
		fmt.Printf("Legal QA Gateway Server\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	// Initialize logger
	logger := logging.New(logging.Config{
		Level:  "info",
		Format: "json",
	})
	logger.Info("Starting Legal QA Gateway Server",
		"version", Version,
		"build_time", BuildTime)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		// If config file doesn't exist, use defaults
		logger.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	// Override port if specified
	if *port != 8080 {
		cfg.Server.Port = *port
	}

	initCtx := context.Background()

	// Initialize document store
	docs, err := docstore.Providers.New(initCtx, cfg.Documents.Type, map[string]string{
		"base_dir": cfg.Documents.BaseDir,
		"bucket":   cfg.Documents.Bucket,
		"region":   cfg.Documents.Region,
		"prefix":   cfg.Documents.Prefix,
		"endpoint": cfg.Documents.Endpoint,
	})
	if err != nil {
		logger.Error("Failed to initialize document store", "type", cfg.Documents.Type, "error", err)
		os.Exit(1)
	}
	defer docs.Close(context.Background())
	logger.Info("Initialized document store", "type", cfg.Documents.Type)

	// Initialize metadata store
	meta, err := storage.Providers.New(initCtx, cfg.Metadata.Type, map[string]string{
		"dsn":  cfg.Metadata.DSN,
		"path": cfg.Metadata.Path,
	})
	if err != nil {
		logger.Error("Failed to initialize metadata store", "type", cfg.Metadata.Type, "error", err)
		os.Exit(1)
	}
	defer meta.Close(context.Background())
	logger.Info("Initialized metadata store", "type", cfg.Metadata.Type)

	// Initialize vector index backend
	backend, err := vectorstore.Providers.New(initCtx, cfg.VectorIndex.Type, map[string]string{
		"address": cfg.VectorIndex.MilvusAddress,
	})
	if err != nil {
		logger.Error("Failed to initialize vector index backend", "type", cfg.VectorIndex.Type, "error", err)
		os.Exit(1)
	}
	defer backend.Close(context.Background())
	logger.Info("Initialized vector index backend", "type", cfg.VectorIndex.Type)

	// Initialize the segmenter
	var enc chunker.Encoding
	if cfg.Chunker.Encoding != "" && cfg.Chunker.Encoding != "rune" {
		te, encErr := chunker.NewTiktokenEncoding(cfg.Chunker.Encoding)
		if encErr != nil {
			logger.Error("Failed to load token encoding", "encoding", cfg.Chunker.Encoding, "error", encErr)
			os.Exit(1)
		}
		enc = te
	}
	segmenter := chunker.New(chunker.Options{
		ChunkSize:     cfg.Chunker.ChunkSize,
		ChunkOverlap:  cfg.Chunker.ChunkOverlap,
		MinChunkUnits: cfg.Chunker.MinChunkUnits,
		Encoding:      enc,
		Logger:        logger.Logger,
	})
	logger.Info("Initialized segmenter",
		"chunk_size", cfg.Chunker.ChunkSize,
		"chunk_overlap", cfg.Chunker.ChunkOverlap,
		"encoding", cfg.Chunker.Encoding)

	// Initialize embedding client
	embedder := api.NewOpenAIEmbeddingClient(
		cfg.Embedding.Endpoint,
		cfg.Embedding.APIKey,
		cfg.Embedding.Model,
		cfg.Embedding.Dimensions,
	)
	logger.Info("Initialized embedding client", "endpoint", cfg.Embedding.Endpoint, "model", cfg.Embedding.Model)

	// Initialize answer client
	answers := api.NewOpenAIAnswerClient(
		cfg.Answer.Endpoint,
		cfg.Answer.APIKey,
		cfg.Answer.Model,
		cfg.Answer.MaxTokens,
	)
	logger.Info("Initialized answer client", "endpoint", cfg.Answer.Endpoint, "model", cfg.Answer.Model)

	// Initialize services
	ingestion, err := services.NewIngestionService(docs, meta, segmenter, embedder, backend, cfg.Embedding.BatchSize, logger)
	if err != nil {
		logger.Error("Failed to initialize ingestion service", "error", err)
		os.Exit(1)
	}
	qa, err := services.NewQAService(embedder, backend, answers, cfg.Answer.TopK, logger)
	if err != nil {
		logger.Error("Failed to initialize QA service", "error", err)
		os.Exit(1)
	}

	// Initialize HTTP adapter
	handler := httpAdapter.New(logger, docs, meta, backend, ingestion, qa, cfg.Embedding.Dimensions)
	logger.Info("Initialized HTTP adapter")

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
