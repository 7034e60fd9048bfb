//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"strconv"

	"liquid-ca/internal/app"
	"liquid-ca/internal/core"
	_ "liquid-ca/internal/sims/liquid"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Lookup(cfg.Sim)
	if !ok {
		log.Fatalf("unknown sim %q", cfg.Sim)
	}

	sim := factory(map[string]string{
		"w":    strconv.Itoa(cfg.Size),
		"h":    strconv.Itoa(cfg.Size),
		"seed": strconv.FormatInt(cfg.Seed, 10),
	})
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg.Scale, cfg.Seed)
	size := sim.Size()

	ebiten.SetWindowTitle("liquid-ca — " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
