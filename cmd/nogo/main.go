package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/modinc01/go-nogo-scraper/internal/cache"
	"github.com/modinc01/go-nogo-scraper/internal/config"
	"github.com/modinc01/go-nogo-scraper/internal/fetch"
	"github.com/modinc01/go-nogo-scraper/internal/market"
	"github.com/sirupsen/logrus"
)

var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "config.yml", "path to config file")
		query       = flag.String("query", "", "product name to look up")
		price       = flag.Int("price", 0, "acquisition price in yen; 0 skips purchase evaluation")
		clearCache  = flag.Bool("clear-cache", false, "drop all cached reports and exit")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	reportCache, err := openCache(cfg)
	if err != nil {
		log.Fatalf("opening cache: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Site.Timeout+30*time.Second)
	defer cancel()

	if *clearCache {
		if err := reportCache.ClearAll(ctx); err != nil {
			log.Fatalf("clearing cache: %v", err)
		}
		log.Info("cache cleared")
		return
	}

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: nogo -query <product name> [-price <yen>]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	fetcher := fetch.New(cfg.Site)
	service := market.NewService(cfg, reportCache, fetcher, log)

	rep, err := service.Lookup(ctx, *query)
	if err != nil {
		log.Fatalf("looking up %q: %v", *query, err)
	}

	output := struct {
		Report     interface{} `json:"report"`
		Evaluation interface{} `json:"evaluation,omitempty"`
	}{Report: rep}

	if *price > 0 {
		eval, err := service.EvaluatePurchase(rep, *price)
		if err != nil {
			log.Fatalf("evaluating purchase: %v", err)
		}
		output.Evaluation = eval
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Fatalf("encoding output: %v", err)
	}
	fmt.Println(string(encoded))
}

func openCache(cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Provider {
	case "redis":
		return cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			UseTLS:   cfg.Cache.Redis.UseTLS,
		})
	default:
		return cache.NewWithPath(cfg.Cache.Path)
	}
}
