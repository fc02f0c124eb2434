package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rvbops/warroom/go/clients"
	"github.com/rvbops/warroom/go/clients/exercise_api_client"
	"github.com/rvbops/warroom/go/internal/app"
	"github.com/rvbops/warroom/go/internal/archive"
	"github.com/rvbops/warroom/go/internal/config"
	"github.com/rvbops/warroom/go/internal/dbconfig"
	"github.com/rvbops/warroom/go/internal/gateway"
	"github.com/rvbops/warroom/go/internal/models"
	"github.com/rvbops/warroom/go/internal/profile"
	"github.com/rvbops/warroom/go/internal/realtime"
	"github.com/rvbops/warroom/go/internal/situation"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := config.NewConfigFromEnv()
	if path := os.Getenv("WARROOM_CONFIG"); path != "" {
		if err := cfg.ApplyOverlay(path); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load config overlay")
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	profiles := profile.NewStore(profile.DefaultPath())
	prof, err := profiles.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load profile")
	}
	if prof.Role != "" {
		cfg.Role = prof.Role
	}

	log.Info().
		Str("backend", cfg.BackendURL).
		Str("role", cfg.Role.Room()).
		Dur("poll_interval", cfg.PollInterval).
		Msg("starting warroom client")

	api := exercise_api_client.NewExerciseApiClient(cfg.BackendURL)
	if prof.AuthToken != "" {
		api.SetBearerToken(prof.AuthToken)
	}
	bootstrapIdentity(&cfg, api, profiles, prof)

	store := situation.NewStore()
	wall := clockwork.NewRealClock()

	streamCfg := realtime.DefaultConfig()
	streamCfg.URL = cfg.StreamURL
	streamCfg.Role = cfg.Role
	streamCfg.SessionID = prof.SessionID
	streamCfg.Token = prof.AuthToken
	stream := realtime.NewClient(streamCfg, store, wall)

	sink := setupArchive(cfg)
	defer sink.Close()

	viewers := gateway.NewService(store)
	handler := gateway.NewHandler(store, viewers.Manager())
	if reader, ok := sink.(gateway.ArchiveReader); ok {
		handler.SetArchive(reader)
	}
	server := gateway.NewServer(cfg.GatewayAddr, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := app.New(cfg, store, api, stream, wall, sink, viewers)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := client.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("client stopped")
		}
	}()

	go func() {
		log.Info().Str("addr", server.Addr).Msg("viewer gateway starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("viewer gateway failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("viewer gateway shutdown failed")
	}

	cancel()
	select {
	case <-runDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("client loops did not stop before the shutdown deadline")
	}

	log.Info().Msg("warroom client shutdown complete")
}

// bootstrapIdentity runs the optional credential flows the backend gates
// behind feature flags: a GM credential login and a join-code redemption.
// Acquired identity is persisted to the profile for the next run; a
// rejected stored identity is cleared so the next run starts clean.
func bootstrapIdentity(cfg *config.Config, api *exercise_api_client.ExerciseApiClient, profiles *profile.Store, prof *profile.Profile) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dirty := false

	if cfg.Features.AuthGM && cfg.Role == models.RoleGM && prof.AuthToken == "" {
		user := os.Getenv("WARROOM_GM_USER")
		pass := os.Getenv("WARROOM_GM_PASSWORD")
		if user != "" && pass != "" {
			token, err := api.GMLogin(ctx, user, pass)
			if err != nil {
				log.Error().Err(err).Msg("GM login failed")
			} else {
				prof.AuthToken = token.AccessToken
				api.SetBearerToken(token.AccessToken)
				dirty = true
				log.Info().Msg("GM login succeeded")
			}
		}
	}

	if cfg.Features.JoinCodes && prof.SessionID == "" {
		if code := os.Getenv("WARROOM_JOIN_CODE"); code != "" {
			joined, err := api.JoinSession(ctx, code)
			if err != nil {
				var apiErr *clients.APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
					// A stored identity the server no longer honors is
					// worse than none.
					if clearErr := profiles.Clear(); clearErr != nil {
						log.Error().Err(clearErr).Msg("failed to clear stale profile")
					}
				}
				log.Error().Err(err).Msg("join code rejected")
			} else {
				prof.SessionID = joined.SessionID
				prof.Role = joined.Role
				prof.AuthToken = joined.AccessToken
				cfg.Role = joined.Role
				api.SetBearerToken(joined.AccessToken)
				dirty = true
				log.Info().Str("session_id", joined.SessionID).Msg("joined session")
			}
		}
	}

	if dirty {
		if err := profiles.Save(prof); err != nil {
			log.Error().Err(err).Msg("failed to persist profile")
		}
	}
}

// setupArchive picks the archive sink from configuration: Postgres when a
// DSN or ARCHIVE_DB_* settings are present, JetStream when a NATS URL is
// set, else the log sink.
func setupArchive(cfg config.Config) archive.Publisher {
	if cfg.Archive.PostgresDSN == "" {
		if dbCfg := dbconfig.NewConfigFromEnv(); dbCfg.Enabled() {
			cfg.Archive.PostgresDSN = dbCfg.DSN()
		}
	}
	if cfg.Archive.PostgresDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		repo, err := archive.OpenRepository(ctx, cfg.Archive.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open archive database")
		}
		log.Info().Msg("archiving events to Postgres")
		return repo
	}
	if cfg.Archive.NatsURL != "" {
		jsCfg := archive.DefaultJetStreamConfig()
		jsCfg.URL = cfg.Archive.NatsURL
		pub, err := archive.NewJetStreamPublisher(jsCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect archive stream")
		}
		log.Info().Msg("archiving events to JetStream")
		return pub
	}
	return archive.NewLogPublisher()
}
