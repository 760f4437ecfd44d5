//go:build js && wasm

// Command gbweb runs the front-end inside a browser page. Build with
// GOOS=js GOARCH=wasm and serve it next to index.html, wasm_exec.js and the
// catalog ROMs.
package main

import (
	"log/slog"
	"syscall/js"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbweb/internal/config"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/engine/tileview"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/frontend"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/romio"
	"github.com/FabianRolfMatthiasNoll/gbweb/internal/web"
)

// pageConfig reads optional JSON settings from window.gbwebConfig.
func pageConfig(log *slog.Logger) config.Config {
	v := js.Global().Get("gbwebConfig")
	if v.Type() != js.TypeString {
		return config.Default()
	}
	cfg, err := config.Parse([]byte(v.String()))
	if err != nil {
		log.Error("ignoring window.gbwebConfig", "err", err)
		return config.Default()
	}
	return cfg
}

func main() {
	console := web.NewConsoleWriter()
	log := slog.New(slog.NewTextHandler(console, nil))

	cfg := pageConfig(log)
	log = slog.New(slog.NewTextHandler(console, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(log)

	page, err := web.Open(cfg.Scale)
	if err != nil {
		log.Error("page setup failed", "err", err)
		return
	}

	opts, err := frontend.OptionsFrom(cfg)
	if err != nil {
		log.Error("bad settings", "err", err)
		page.Alert(err.Error())
		return
	}
	base := cfg.BaseURL
	if base == "" {
		base = page.Location()
	}
	opts.Engine = tileview.New()
	opts.Fetcher = &romio.Source{BaseURL: base, Timeout: time.Duration(cfg.FetchTimeout)}
	opts.Logger = log

	ctrl := frontend.New(page.Host(), opts)
	page.Wire(ctrl, cfg.Catalog, log)
	if cfg.AutoLoad {
		ctrl.Start()
	}
	log.Info("gbweb ready", "catalog", len(cfg.Catalog), "throttle", cfg.Throttle, "palette", opts.Palette.Name)

	select {}
}
