//go:build linux

// ibus-engine-zhuyin is the IBus engine process for Zhuyin input.
//
// ibus-daemon starts it with -ibus as listed in the component file:
//
//	ibus-engine-zhuyin -install   # write ~/.local/share/ibus/component/zhuyin.xml
//	ibus restart
//
// Started by hand without -ibus, it still serves the engine on the
// discovered bus, which is handy with -verbose while debugging.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"zhuyin/internal/config"
	"zhuyin/internal/ibus"
	"zhuyin/internal/ime"
	"zhuyin/internal/keymap"
	"zhuyin/internal/launcher"
	"zhuyin/internal/logging"
	"zhuyin/internal/phonetic"
)

type options struct {
	ibus       bool
	configPath string
	install    bool
	uninstall  bool
	verbose    bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.ibus, "ibus", false, "Started by ibus-daemon")
	flag.StringVar(&opts.configPath, "config", "", "Configuration file (default "+config.ConfigPath()+")")
	flag.BoolVar(&opts.install, "install", false, "Install the IBus component file and exit")
	flag.BoolVar(&opts.uninstall, "uninstall", false, "Remove the IBus component file and exit")
	flag.BoolVar(&opts.verbose, "verbose", false, "Log at debug level")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "ibus-engine-zhuyin: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.uninstall {
		dir, err := ibus.ComponentDir()
		if err != nil {
			return err
		}
		if err := ibus.Uninstall(dir); err != nil {
			return fmt.Errorf("uninstall: %w", err)
		}
		fmt.Println("Uninstalled. Run 'ibus restart' to unload.")
		return nil
	}

	if res, err := config.MigrateFile(configPath(opts)); err != nil {
		return fmt.Errorf("migrate config: %w", err)
	} else if res != nil {
		fmt.Fprintf(os.Stderr, "config migrated from v%d, backup at %s\n", res.FromVersion, res.Backup)
	}

	loader := config.NewLoader(opts.configPath)
	defer loader.Close()
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	if opts.install {
		return install(cfg)
	}

	logger, err := newLogger(cfg.Logging, opts.verbose)
	if err != nil {
		return err
	}
	defer logger.Close()
	logging.SetDefault(logger)
	log := logger.Logger

	dict, err := phonetic.OpenDictionary(cfg.Dictionary.Path)
	if err != nil {
		return err
	}
	defer dict.Close()

	var lex phonetic.Lexicon = dict
	if !cfg.Dictionary.Learn {
		lex = frozenLexicon{dict}
	}

	conn, err := ibus.Connect("", log)
	if err != nil {
		return err
	}
	defer conn.Close()

	factory, err := ibus.NewFactory(conn, ibus.FactoryConfig{
		NewEngine: func() (ime.PhoneticEngine, error) {
			return phonetic.NewEngine(lex), nil
		},
		Settings: loader,
		Keymap:   keymap.NewMapper(loader),
		Keyboard: keymap.NewLEDKeyboard(),
		Launcher: launcher.New(cfg.Setup.Path, log.With(slog.String("component", "launcher"))),
		Logger:   log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loader.Watch(); err != nil {
		log.Warn("config changes will not be picked up", "error", err)
	} else {
		loader.OnChange(func(*config.Config) {
			log.Info("configuration reloaded", "path", loader.Path())
		})
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case err := <-loader.Errors():
					log.Warn("config watch", "error", err)
				}
			}
		}()
	}

	log.Info("starting", "ibus", opts.ibus, "dictionary", cfg.Dictionary.Path)
	if err := ibus.Serve(ctx, conn, factory); err != nil {
		if errors.Is(err, ibus.ErrNameTaken) {
			return fmt.Errorf("another zhuyin engine is running: %w", err)
		}
		return err
	}
	log.Info("shut down")
	return nil
}

func configPath(opts options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.ConfigPath()
}

func install(cfg *config.Config) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	dir, err := ibus.ComponentDir()
	if err != nil {
		return err
	}
	path, err := ibus.Install(dir, ibus.NewComponent(exe, cfg.Setup.Path))
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}
	fmt.Printf("Installed %s. Run 'ibus restart' to load.\n", path)
	return nil
}

func newLogger(c config.LoggingConfig, verbose bool) (*logging.Logger, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = logging.LevelDebug
	}
	format, err := logging.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(&logging.Config{
		Level:      level,
		Format:     format,
		Output:     c.Output,
		FilePath:   c.FilePath,
		MaxSize:    int64(c.MaxSizeMB) << 20,
		MaxBackups: c.MaxBackups,
		Component:  "ibus-engine-zhuyin",
	})
}

// frozenLexicon serves lookups without recording choices.
type frozenLexicon struct {
	*phonetic.Dictionary
}

func (frozenLexicon) Learn(string, string) error { return nil }
