package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ducminhle1904/crypto-forecast-lab/internal/exchange/bybit"
)

func main() {
	var (
		symbol   = flag.String("symbol", "BTCUSDT", "Trading symbol (e.g. BTCUSDT)")
		interval = flag.String("interval", "D", "Kline interval (1, 5, 15, 30, 60, 240, D, W)")
		category = flag.String("category", "spot", "Market category (spot, linear, inverse)")

		symbols    = flag.String("symbols", "", "Comma-separated list of symbols (overrides -symbol if provided)")
		intervals  = flag.String("intervals", "", "Comma-separated list of intervals (overrides -interval if provided)")
		categories = flag.String("categories", "", "Comma-separated list of categories (overrides -category if provided)")
		outdir     = flag.String("outdir", "data/bybit", "Directory to write CSV files")

		startDate = flag.String("start", "", "Start date (YYYY-MM-DD)")
		endDate   = flag.String("end", "", "End date (YYYY-MM-DD)")
		output    = flag.String("output", "", "Explicit output file path (only for single symbol/interval/category)")
		limit     = flag.Int("limit", 1000, "Number of klines per request (max 1000)")
	)

	flag.Parse()

	symList := splitList(*symbols, *symbol, strings.ToUpper)
	intList := splitList(*intervals, *interval, func(s string) string { return s })
	catList := splitList(*categories, *category, strings.ToLower)

	end := time.Now()
	start := end.AddDate(-3, 0, 0) // default to 3 years of daily data

	if *startDate != "" {
		parsedStart, err := time.Parse("2006-01-02", *startDate)
		if err != nil {
			log.Fatalf("Invalid start date format: %v", err)
		}
		start = parsedStart
	}

	if *endDate != "" {
		parsedEnd, err := time.Parse("2006-01-02", *endDate)
		if err != nil {
			log.Fatalf("Invalid end date format: %v", err)
		}
		end = parsedEnd
	}

	if err := os.MkdirAll(*outdir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := bybit.NewClient(bybit.Config{})

	fmt.Println("🚀 Bybit Historical Data Downloader")
	fmt.Println("====================================")
	fmt.Printf("📊 Categories: %s\n", strings.Join(catList, ", "))
	fmt.Printf("🎯 Symbols: %s\n", strings.Join(symList, ", "))
	fmt.Printf("⏱️  Intervals: %s\n", strings.Join(intList, ", "))
	fmt.Printf("📅 Date Range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Println()

	singleMode := len(symList) == 1 && len(intList) == 1 && len(catList) == 1

	if singleMode && strings.TrimSpace(*output) != "" {
		downloadOne(ctx, client, catList[0], symList[0], intList[0], start, end, *limit, *output)
		return
	}

	for _, cat := range catList {
		for _, sym := range symList {
			for _, ival := range intList {
				if ctx.Err() != nil {
					log.Println("⚠️  Interrupted, stopping downloads")
					return
				}
				outPath := filepath.Join(*outdir, cat, sym, ival, "candles.csv")
				downloadOne(ctx, client, cat, sym, ival, start, end, *limit, outPath)
			}
		}
	}

	fmt.Println("\n🎉 All downloads completed!")
}

func splitList(csvList, fallback string, normalize func(string) string) []string {
	var out []string
	if strings.TrimSpace(csvList) != "" {
		for _, item := range strings.Split(csvList, ",") {
			if v := normalize(strings.TrimSpace(item)); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	return []string{normalize(strings.TrimSpace(fallback))}
}

func downloadOne(ctx context.Context, client *bybit.Client, category, symbol, interval string, start, end time.Time, limit int, outputPath string) {
	fmt.Printf("\n📊 Downloading %s %s data for %s\n", category, interval, symbol)
	fmt.Printf("📁 Output: %s\n", outputPath)
	fmt.Println("🔄 Fetching data...")

	klines, err := client.GetKlineHistory(ctx, bybit.KlineParams{
		Category: category,
		Symbol:   symbol,
		Interval: bybit.KlineInterval(interval),
		Start:    &start,
		End:      &end,
		Limit:    limit,
	}, 500*time.Millisecond)
	if err != nil {
		log.Printf("❌ Failed to download data for %s %s %s: %v", category, symbol, interval, err)
		return
	}

	fmt.Printf("✅ Downloaded %d klines\n", len(klines))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		log.Printf("❌ Failed to prepare output directory %s: %v", filepath.Dir(outputPath), err)
		return
	}

	if err := saveToCSV(klines, outputPath); err != nil {
		log.Printf("❌ Failed to save %s %s %s: %v", category, symbol, interval, err)
		return
	}

	fmt.Printf("💾 Data saved to %s\n", outputPath)
	printSummary(klines)
}

func printSummary(klines []bybit.Kline) {
	if len(klines) == 0 {
		return
	}

	fmt.Println("\n📊 DATA SUMMARY:")
	fmt.Printf("  First: %s\n", klines[0].StartTime.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Last:  %s\n", klines[len(klines)-1].StartTime.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Total: %d candles\n", len(klines))

	var totalVolume float64
	highPrice := 0.0
	lowPrice := klines[0].LowPrice

	for _, kline := range klines {
		totalVolume += kline.Volume
		if kline.HighPrice > highPrice {
			highPrice = kline.HighPrice
		}
		if kline.LowPrice < lowPrice {
			lowPrice = kline.LowPrice
		}
	}

	fmt.Printf("  High:  $%.2f\n", highPrice)
	fmt.Printf("  Low:   $%.2f\n", lowPrice)
	fmt.Printf("  Avg Volume: %.2f\n", totalVolume/float64(len(klines)))
}

func saveToCSV(klines []bybit.Kline, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"timestamp", "open", "high", "low", "close", "volume", "turnover"}); err != nil {
		return err
	}

	for _, kline := range klines {
		record := []string{
			kline.StartTime.Format("2006-01-02 15:04:05"),
			formatFloat(kline.OpenPrice),
			formatFloat(kline.HighPrice),
			formatFloat(kline.LowPrice),
			formatFloat(kline.ClosePrice),
			formatFloat(kline.Volume),
			formatFloat(kline.Turnover),
		}

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
