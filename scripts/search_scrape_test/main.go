package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/modinc01/go-nogo-scraper/internal/config"
	"github.com/modinc01/go-nogo-scraper/internal/fetch"
	"github.com/modinc01/go-nogo-scraper/internal/market"
	"github.com/sirupsen/logrus"
)

// Standalone probe for the extraction pipeline. Runs the full pass against a
// live search page, or against a saved HTML file when tuning the selector
// lists offline.
func main() {
	query := flag.String("query", "", "search query")
	file := flag.String("file", "", "local HTML file to parse instead of fetching")
	price := flag.Int("price", 0, "acquisition price in yen; 0 skips evaluation")
	flag.Parse()

	search := strings.TrimSpace(*query)
	if search == "" {
		fmt.Fprintln(os.Stderr, "query is required")
		os.Exit(1)
	}

	cfg, err := config.Load("config.yml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	var document []byte
	if *file != "" {
		document, err = os.ReadFile(*file)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		document, err = fetch.New(cfg.Site).Fetch(ctx, search)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	service := market.NewService(cfg, nil, nil, log)
	rep := service.BuildMarketReport(search, document)

	output := struct {
		Report     interface{} `json:"report"`
		Evaluation interface{} `json:"evaluation,omitempty"`
	}{Report: rep}

	if *price > 0 {
		eval, err := service.EvaluatePurchase(rep, *price)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		output.Evaluation = eval
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}
