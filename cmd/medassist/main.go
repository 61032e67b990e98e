package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/healthdesk/medassist/chat"
	"github.com/healthdesk/medassist/common/httpx"
	"github.com/healthdesk/medassist/common/logger"
	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/embedding"
	"github.com/healthdesk/medassist/httpapi"
	"github.com/healthdesk/medassist/knowledge"
	"github.com/healthdesk/medassist/llm"
	"github.com/healthdesk/medassist/mcpserver"
	"github.com/healthdesk/medassist/report"
	"github.com/healthdesk/medassist/review"
	"github.com/healthdesk/medassist/session"
	"github.com/healthdesk/medassist/textsplitter"
	"github.com/healthdesk/medassist/vectordb"
)

func main() {
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio instead of the HTTP API")
	configPath := flag.String("config", os.Getenv("MEDASSIST_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath, *mcpMode); err != nil {
		fmt.Fprintf(os.Stderr, "medassist: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, mcpMode bool) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config failed, err: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := httpx.NewClient(httpx.Options{
		Timeout:       time.Duration(cfg.HTTPClient.TimeoutSeconds) * time.Second,
		HostAllowlist: cfg.HTTPClient.HostAllowlist,
	})

	provider, err := llm.NewProvider(cfg.LLM, client)
	if err != nil {
		return fmt.Errorf("create llm provider failed, err: %w", err)
	}
	embed, err := embedding.NewProvider(cfg.Embedding, client)
	if err != nil {
		return fmt.Errorf("create embedding provider failed, err: %w", err)
	}
	vstore, err := vectordb.NewProvider(ctx, cfg.VectorDB, embed.Dimensions())
	if err != nil {
		return fmt.Errorf("create vector store failed, err: %w", err)
	}
	splitter, err := textsplitter.NewTextSplitter(&cfg.Splitter)
	if err != nil {
		return fmt.Errorf("create text splitter failed, err: %w", err)
	}

	kb := knowledge.NewBase(cfg.Knowledge, splitter, embed, vstore)
	if !cfg.Knowledge.SkipSeed {
		n, err := kb.SeedBuiltin(ctx)
		if err != nil {
			return fmt.Errorf("seed knowledge base failed, err: %w", err)
		}
		if n > 0 {
			logger.Infof("knowledge base seeded with %d chunks", n)
		}
	}

	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return fmt.Errorf("create session store failed, err: %w", err)
	}
	queue := review.NewMemoryQueue()
	reportSvc := report.NewService(cfg.Report, kb, provider, queue)
	chatSvc := chat.NewService(store, provider)

	if mcpMode {
		logger.Infof("serving MCP tools on stdio (provider=%s model=%s)", cfg.LLM.Provider, cfg.LLM.Model)
		return mcpserver.New("medassist", chatSvc, reportSvc, kb).Serve(ctx)
	}

	logger.Infof("listening on %s (provider=%s model=%s)", cfg.Server.Addr, cfg.LLM.Provider, cfg.LLM.Model)
	return httpapi.NewServer(cfg, chatSvc, reportSvc, store, queue).Run(ctx)
}
