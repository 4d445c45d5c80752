// parkicle shows the occupancy of EV charging stations in a parking area.
//
// Signed-in users pick an area and see every station as available,
// charging or illegally parked. Actions that change what the board shows
// (auto refresh, manual refresh, changing area, signing out) ask for an
// admin code first.
//
// Usage:
//
//	parkicle [flags]
//
// Flags:
//
//	-config string       Path to configuration file (default: $XDG_CONFIG_HOME/parkicle/config.toml)
//	-area string         Area to open, overriding config and the remembered area
//	-once                Print the board once as plain text and exit
//	-seed string         Load stations from a YAML seed file into the store
//	-issue-token string  Write a signed session token for the given email and exit
//	-hash-code string    Print the bcrypt hash of an admin code and exit
//	-verbose             Enable debug logging
//	-version             Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/parkicle/pkg/app"
	"gitlab.com/tinyland/lab/parkicle/pkg/auth"
	"gitlab.com/tinyland/lab/parkicle/pkg/board"
	"gitlab.com/tinyland/lab/parkicle/pkg/config"
	"gitlab.com/tinyland/lab/parkicle/pkg/logging"
	"gitlab.com/tinyland/lab/parkicle/pkg/prefs"
	"gitlab.com/tinyland/lab/parkicle/pkg/session"
	"gitlab.com/tinyland/lab/parkicle/pkg/store"
	"gitlab.com/tinyland/lab/parkicle/pkg/theme"
	"gitlab.com/tinyland/lab/parkicle/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		areaFlag    = flag.String("area", "", "Area to open, overriding config and the remembered area")
		once        = flag.Bool("once", false, "Print the board once as plain text and exit")
		seedPath    = flag.String("seed", "", "Load stations from a YAML seed file into the store")
		issueToken  = flag.String("issue-token", "", "Write a signed session token for this email and exit")
		hashCode    = flag.String("hash-code", "", "Print the bcrypt hash of an admin code and exit")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("parkicle %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	// Doesn't require config.
	if *hashCode != "" {
		h, err := session.HashCode(*hashCode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash code: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(h)
		os.Exit(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.General.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if *issueToken != "" {
		if err := writeToken(cfg, *issueToken); err != nil {
			fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("token for %s written to %s\n", *issueToken, cfg.Identity.TokenFile)
		os.Exit(0)
	}

	logFile, err := logging.OpenFile(cfg.General.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger, err := logging.New(logFile, logging.Options{
		Level:  cfg.General.LogLevel,
		Format: cfg.General.LogFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	if err := run(ctx, cfg, logger, options{
		area:     *areaFlag,
		once:     *once,
		seedPath: *seedPath,
	}); err != nil {
		logger.Error("parkicle failed", "error", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type options struct {
	area     string
	once     bool
	seedPath string
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts options) error {
	backend, err := store.Open(ctx, store.Options{
		Driver:          cfg.Store.Driver,
		SQLitePath:      cfg.Store.SQLitePath,
		PostgresDSN:     cfg.Store.PostgresDSN,
		PostgresMigrate: cfg.Store.PostgresMigrate,
		RedisAddr:       cfg.Store.RedisAddr,
		RedisPassword:   cfg.Store.RedisPassword,
		RedisDB:         cfg.Store.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer backend.Close()
	logger.Info("store opened", "driver", backend.Name())

	seedPath := opts.seedPath
	if seedPath == "" {
		seedPath = cfg.Store.SeedFile
	}
	if seedPath != "" {
		if err := applySeed(ctx, backend, seedPath, logger); err != nil {
			return err
		}
	}

	prefStore, closePrefs, err := openPrefs(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePrefs()

	if cfg.Theme.File != "" {
		if _, err := theme.LoadFile(cfg.Theme.File); err != nil {
			logger.Warn("theme file not loaded", "path", cfg.Theme.File, "error", err)
		}
	}
	th, ok := theme.Lookup(cfg.Theme.Name)
	if !ok {
		logger.Warn("unknown theme, using default", "theme", cfg.Theme.Name)
	}

	autoRefresh := cfg.Board.AutoRefresh
	b := board.New(board.Options{
		PlaceholderCount: cfg.Board.PlaceholderCount,
		RefreshInterval:  cfg.Board.RefreshInterval.Duration,
		AutoRefresh:      &autoRefresh,
		Logger:           logger,
	})
	b.SetArea(app.InitialArea(opts.area, cfg.Board.Area, prefStore, cfg.Board.AreaKey))

	provider := auth.NewTokenProvider(auth.TokenProviderConfig{
		Source: auth.FileTokenSource(cfg.Identity.TokenFile),
		Secret: cfg.Identity.Secret,
		Issuer: cfg.Identity.Issuer,
		Logger: logger,
	})

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if opts.once || !interactive {
		return printOnce(ctx, b, provider, backend, cfg)
	}

	var verifier session.Verifier = session.PlainCode(cfg.Gate.Code)
	if cfg.Gate.CodeHash != "" {
		verifier = session.HashedCode(cfg.Gate.CodeHash)
	}
	gate := session.NewGate(verifier, logger)
	defer gate.Close()

	provider.Restore(ctx)

	model := tui.New(tui.Deps{
		Context:      ctx,
		Board:        b,
		Gate:         gate,
		Provider:     provider,
		Fetcher:      backend,
		Prefs:        prefStore,
		AreaKey:      cfg.Board.AreaKey,
		AreaTTLDays:  cfg.Board.AreaTTLDays,
		FetchTimeout: cfg.Store.Timeout.Duration,
		Theme:        th,
		Logger:       logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	go app.BridgeSession(gate, provider, p.Send)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func openPrefs(ctx context.Context, cfg *config.Config, logger *slog.Logger) (prefs.Store, func(), error) {
	switch cfg.Prefs.Driver {
	case "redis":
		client, err := store.NewRedisClient(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open prefs: %w", err)
		}
		r := prefs.NewRedisStore(client, cfg.Prefs.RedisPrefix, logger)
		return r, func() { r.Close() }, nil
	default:
		f, err := prefs.NewFileStore(cfg.Prefs.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open prefs: %w", err)
		}
		return f, func() {}, nil
	}
}

func applySeed(ctx context.Context, w store.Writer, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	seed, err := store.LoadSeed(f)
	if err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	n, err := seed.Apply(ctx, w)
	if err != nil {
		return fmt.Errorf("apply seed %s: %w", path, err)
	}
	logger.Info("seed applied", "path", path, "areas", seed.AreaNames(), "stations", n)
	return nil
}

// printOnce reads the area once and prints it without colors.
func printOnce(ctx context.Context, b *board.Board, provider *auth.TokenProvider, f store.Fetcher, cfg *config.Config) error {
	if b.Area() == "" {
		return errors.New("no area: pass -area or set board.area")
	}
	if _, err := provider.IDToken(ctx, true); err != nil {
		return fmt.Errorf("not signed in (run with -issue-token first): %w", err)
	}

	if d := cfg.Store.Timeout.Duration; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	b.Refresh(ctx, f, true)

	width := 0
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil {
		width = w
	}
	fmt.Print(tui.RenderPlain(b, width))
	return nil
}

func writeToken(cfg *config.Config, email string) error {
	token, err := auth.NewIssuer(cfg.Identity.Secret, cfg.Identity.Issuer, cfg.Identity.TokenTTL.Duration).Issue(email, "")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Identity.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(cfg.Identity.TokenFile, []byte(token+"\n"), 0o600)
}
