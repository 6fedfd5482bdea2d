// ibus-setup-zhuyin edits the Zhuyin engine preferences.
//
// Without flags it opens the preferences window. For scripts:
//
//	ibus-setup-zhuyin -list
//	ibus-setup-zhuyin -set cand-per-page=8 -set sync-caps-lock=true
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"zhuyin/cmd/ibus-setup-zhuyin/internal/theme"
	"zhuyin/cmd/ibus-setup-zhuyin/internal/ui"
	"zhuyin/internal/config"
)

type assignments []string

func (a *assignments) String() string     { return strings.Join(*a, ",") }
func (a *assignments) Set(v string) error { *a = append(*a, v); return nil }

func main() {
	configPath := flag.String("config", config.ConfigPath(), "Configuration file")
	list := flag.Bool("list", false, "Print the engine options and exit")
	var sets assignments
	flag.Var(&sets, "set", "Set an option, name=value (repeatable)")
	flag.Parse()

	if *list || len(sets) > 0 {
		if err := headless(*configPath, *list, sets); err != nil {
			fmt.Fprintf(os.Stderr, "ibus-setup-zhuyin: %v\n", err)
			os.Exit(1)
		}
		return
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title("Zhuyin Preferences"))
		w.Option(app.Size(unit.Dp(480), unit.Dp(640)))

		if err := loop(w, *configPath); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, path string) error {
	mt := material.NewTheme()
	mt.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	t := theme.NewTheme(mt)

	prefs, err := ui.NewPreferences(t, path)
	if err != nil {
		return err
	}

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			prefs.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func headless(path string, list bool, sets []string) error {
	cfg, _, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}

	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("-set %q: want name=value", s)
		}
		if err := cfg.Engine.Set(strings.TrimSpace(name), strings.TrimSpace(value)); err != nil {
			return err
		}
	}

	if len(sets) > 0 {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveConfig(cfg, path); err != nil {
			return err
		}
	}

	if list {
		for _, o := range config.Options() {
			v, _ := cfg.Engine.Get(o.Name)
			fmt.Printf("%-24s %-12s %s\n", o.Name, v, o.Description)
		}
	}
	return nil
}
