package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resume-rag/internal/config"
	"resume-rag/internal/embedding"
	"resume-rag/internal/index"
	"resume-rag/internal/ingest"
	"resume-rag/internal/llm"
	"resume-rag/internal/rag"
	"resume-rag/internal/session"
	"resume-rag/internal/tui"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", configFilePath, "Path to the YAML config file")
	runIngest := flag.Bool("ingest", false, "Ingest the data folder into the vector index and exit")
	query := flag.String("query", "", "Answer a single question and exit instead of starting the chat")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector index")
	}
	defer store.Close()

	embedder, err := embedding.NewOpenAI(cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	if *runIngest {
		stats, err := ingest.New(embedder, store, cfg).Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Error ingesting documents")
		}
		log.Info().Int("documents", stats.Documents).Int("chunks", stats.Chunks).Msg("Ingestion complete")
		return
	}

	generator, err := llm.NewOpenAI(cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing language model")
	}

	pipeline := rag.NewPipeline(embedder, store, generator, cfg)
	sess := session.New()

	if *query != "" {
		answerOnce(ctx, pipeline, sess, *query)
		return
	}

	if _, err := tea.NewProgram(tui.New(pipeline, sess, cfg.Chat.Persona), tea.WithAltScreen()).Run(); err != nil {
		log.Fatal().Err(err).Msg("Error running chat")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (index.Store, error) {
	switch cfg.Index.Backend {
	case "chromem":
		return index.NewChromem(cfg.Index.Path, cfg.Index.Collection, false)
	case "postgres":
		return index.NewPostgres(ctx, cfg.Index.DSN, cfg.Index.Debug)
	default:
		return nil, fmt.Errorf("unknown index backend: %s", cfg.Index.Backend)
	}
}

// answerOnce streams a single answer to stdout, for shell use.
func answerOnce(ctx context.Context, pipeline *rag.Pipeline, sess *session.Session, question string) {
	answer, err := pipeline.Ask(ctx, sess, question, func(ctx context.Context, fragment string) error {
		fmt.Print(fragment)
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering question")
	}
	if !answer.Grounded {
		fmt.Print(answer.Text)
	}
	fmt.Println()
	for _, src := range answer.Sources {
		if src.Page > 0 {
			log.Info().Str("file", src.File).Int("page", src.Page).Msg("source")
		} else {
			log.Info().Str("file", src.File).Msg("source")
		}
	}
}
