package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/dota2-scout/internal/scout/report"
	"github.com/radieske/dota2-scout/internal/scout/stratz"
	"github.com/radieske/dota2-scout/internal/shared/config"
	"github.com/radieske/dota2-scout/internal/shared/logger"
)

func main() {
	playerID := flag.Int64("player", 0, "Steam account ID do jogador")
	positions := flag.String("positions", "", "CARRY, MID, OFFLANE, SOFT_SUPPORT, HARD_SUPPORT ou SUPPORT")
	timeout := flag.Duration("timeout", 30*time.Second, "timeout das consultas ao Stratz")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: scout-report -player <steamId> -positions <role>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "scout-report"
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *playerID <= 0 || *positions == "" {
		flag.Usage()
		os.Exit(2)
	}
	pos, err := report.ParsePositions(*positions)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.StratzToken == "" {
		log.Fatal("STRATZ_API_TOKEN is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	fmt.Printf("Fetching matches for player %d with positions: %s\n\n", *playerID, strings.ToUpper(*positions))

	r, err := report.Fetch(ctx, stratz.New(cfg.StratzURL, cfg.StratzToken), *playerID, pos)
	if err != nil {
		log.Fatal("stratz fetch failed", zap.Int64("player_id", *playerID), zap.Error(err))
	}
	if err := report.Print(os.Stdout, r, time.Now()); err != nil {
		log.Fatal("print report failed", zap.Error(err))
	}
}
