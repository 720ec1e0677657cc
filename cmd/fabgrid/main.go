package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fabgrid/engine/internal/config"
	"github.com/fabgrid/engine/internal/core/event"
	coresys "github.com/fabgrid/engine/internal/core/system"
	"github.com/fabgrid/engine/internal/data"
	"github.com/fabgrid/engine/internal/geom"
	"github.com/fabgrid/engine/internal/persist"
	"github.com/fabgrid/engine/internal/scripting"
	"github.com/fabgrid/engine/internal/system"
	"github.com/fabgrid/engine/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            fabgrid  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     tile factory simulation engine        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mworld:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main engine logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("FABGRID_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Engine.Name)

	// 3. Optionally connect to PostgreSQL and run migrations
	var db *persist.DB
	if cfg.Database.Enabled {
		printSection("database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err = persist.NewDB(ctx, cfg.Database, log)
		cancel()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		migCtx, migCancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = persist.RunMigrations(migCtx, db.Pool)
		migCancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		fmt.Println()
	}

	// 4. Load data tables
	printSection("data")

	itemTable, err := data.LoadItemTable(filepath.Join(cfg.Engine.DataDir, "item_list.yaml"))
	if err != nil {
		return fmt.Errorf("load item table: %w", err)
	}
	printStat("item templates", itemTable.Count())

	buildingTable, err := data.LoadBuildingTable(filepath.Join(cfg.Engine.DataDir, "building_list.yaml"))
	if err != nil {
		return fmt.Errorf("load building table: %w", err)
	}
	printStat("building templates", buildingTable.Count())

	// 5. Init Lua tuning engine
	luaEngine, err := scripting.NewEngine(cfg.Engine.Scripts, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")

	// 6. Create world state and spawn or restore placements
	bus := event.NewBus()
	state := world.NewState(bus)
	state.BeltSpeedTier = cfg.Simulation.BeltSpeedTier

	restored := false
	if db != nil {
		loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
		rows, slots, err := persist.NewWorldRepo(db).Load(loadCtx)
		loadCancel()
		if err != nil {
			return fmt.Errorf("load world: %w", err)
		}
		if len(rows) > 0 {
			if err := system.RestoreWorld(state, buildingTable, rows, slots); err != nil {
				return fmt.Errorf("restore world: %w", err)
			}
			restored = true
			printStat("entities restored", state.EntityCount())
		}
	}
	if !restored {
		layout, err := data.LoadLayout(filepath.Join(cfg.Engine.DataDir, "layout_list.yaml"))
		if err != nil {
			return fmt.Errorf("load layout: %w", err)
		}
		for _, p := range layout {
			tpl := buildingTable.Get(p.BuildingID)
			if tpl == nil {
				return fmt.Errorf("layout: unknown building_id %d", p.BuildingID)
			}
			if _, err := state.Spawn(tpl, geom.Tile{X: p.X, Y: p.Y}, geom.Rotation(p.Rotation)); err != nil {
				return fmt.Errorf("layout: %w", err)
			}
		}
		printStat("entities placed", state.EntityCount())
	}
	event.Emit(bus, event.WorldLoaded{Entities: state.EntityCount()})
	fmt.Println()

	// 7. Create systems and register with runner
	tracker := system.NewTracker()
	tracker.Attach(bus)
	conn := system.NewConnectivity(state)
	tickRateHz := float64(time.Second) / float64(cfg.Engine.TickRate)

	var journal *system.Journal
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(state, bus))
	var persistSys *system.PersistenceSystem
	if db != nil {
		journal = system.NewJournal()
		persistSys = system.NewPersistenceSystem(
			state,
			persist.NewWorldRepo(db),
			persist.NewTransferLogRepo(db),
			journal,
			log,
			cfg.Simulation.AutosaveTicks,
		)
		runner.Register(persistSys)
	}
	runner.Register(system.NewTransferSystem(state, tracker, conn, luaEngine, itemTable, journal, log, tickRateHz))
	runner.Register(system.NewSourceSystem(state))
	runner.Register(system.NewCleanupSystem(state.Entities))

	// 8. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	printSection("engine ready")
	printReady(fmt.Sprintf("game loop started (tick: %s)", cfg.Engine.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Engine.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if persistSys != nil {
				persistSys.SaveWorld()
			}
			log.Info("engine stopped")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
