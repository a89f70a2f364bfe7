package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/oauth2"

	"sheetcraft/internal/appdirs"
	"sheetcraft/internal/engine"
	"sheetcraft/internal/envfile"
	"sheetcraft/internal/envutil"
	"sheetcraft/internal/logging"
	"sheetcraft/internal/mcp"
	"sheetcraft/internal/secrets"
	"sheetcraft/internal/settings"
	"sheetcraft/internal/sheets"
	"sheetcraft/internal/store"
	"sheetcraft/internal/workbook"
)

const version = "0.1.0"

func main() {
	envResult := envfile.Load()
	debug := envutil.Bool("SHEETCRAFT_DEBUG")
	dataDir, err := appdirs.DataDir()
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}
	logSetup, logErr := logging.NewFileLogger(dataDir, debug)
	logger := logSetup.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("component", "server")
	if logSetup.Enabled {
		logger.Info("server.logging_enabled", "path", logSetup.Path)
	}
	if envResult.Loaded {
		logger.Debug("server.env_loaded", "path", envResult.Path)
	}
	if envResult.Err != nil {
		logger.Warn("server.env_load_failed", "path", envResult.Path, "error", envResult.Err.Error())
	}
	if logErr != nil {
		logger.Warn("server.log_setup_failed", "error", logErr.Error())
	}
	if logSetup.Close != nil {
		defer logSetup.Close()
	}

	settingsStore := settings.NewStore(appdirs.SettingsPath(dataDir))
	cfg, err := settingsStore.Load()
	if err != nil {
		logger.Error("server.settings_load_failed", "error", err.Error())
		log.Fatalf("server init failed: %v", err)
	}
	settings.ApplyEnv(cfg)

	ctx := context.Background()
	st, err := buildStore(ctx, cfg, dataDir, logger)
	if err != nil {
		logger.Error("server.store_init_failed", "backend", cfg.Backend, "error", err.Error())
		log.Fatalf("server init failed: %v", err)
	}
	logger.Info("server.store_ready", "backend", cfg.Backend)

	eng := engine.New(st,
		engine.WithLogger(logger),
		engine.WithAllowedLocators(cfg.AllowedLocators),
	)
	server := mcp.NewServer(
		mcp.ServerInfo{Name: "sheetcraft", Version: version},
		engine.Tools(),
		eng.Invoke,
		os.Stdin, os.Stdout,
		logger,
	)

	if cfg.HTTPAddr != "" {
		logger.Info("server.http_listening", "addr", cfg.HTTPAddr)
		go func() {
			if err := http.ListenAndServe(cfg.HTTPAddr, server.Handler()); err != nil {
				logger.Error("server.http_failed", "error", err.Error())
			}
		}()
	}

	if err := server.Serve(ctx); err != nil {
		logger.Error("server.stdio_failed", "error", err.Error())
		log.Fatalf("server error: %v", err)
	}
}

func buildStore(ctx context.Context, cfg *settings.Settings, dataDir string, logger *slog.Logger) (store.Store, error) {
	switch cfg.Backend {
	case settings.BackendWorkbook:
		dir := cfg.WorkbookDir
		if dir == "" {
			dir = appdirs.WorkbooksDir(dataDir)
		}
		return workbook.NewStore(dir, logger), nil
	default:
		sheetsCfg := sheets.Config{CredentialsFile: cfg.CredentialsFile}
		if sheetsCfg.CredentialsFile == "" {
			secretsStore := secrets.NewStore(appdirs.SecretsPath(dataDir), appdirs.MasterKeyPath(dataDir))
			token, err := secretsStore.GetGoogleOAuthToken()
			if err != nil {
				return nil, err
			}
			if token != nil {
				sheetsCfg.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{
					AccessToken:  token.AccessToken,
					RefreshToken: token.RefreshToken,
					TokenType:    token.TokenType,
					Expiry:       token.Expiry,
				})
			}
		}
		return sheets.New(ctx, sheetsCfg, logger)
	}
}
