package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/einvoice-tools/extractor/internal/common"
	"github.com/einvoice-tools/extractor/internal/document"
	"github.com/einvoice-tools/extractor/internal/entity"
	"github.com/einvoice-tools/extractor/internal/extract"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		input    = flag.String("input", "", "path to a .txt or layout .json document")
		text     = flag.String("text", "", "inline document text (alternative to --input)")
		asJSON   = flag.Bool("json", false, "emit the canonical JSON record instead of a summary")
		logLevel = flag.String("log-level", "warn", "log level: debug|info|warn|error")
	)
	flag.Parse()

	if *input == "" && *text == "" {
		printError("Error: --input or --text is required\n")
		os.Exit(1)
	}

	// Record output goes to stdout; logs stay on stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load() // best-effort; a missing .env is not an error

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	extractor := extract.NewExtractor(cfg.Batch.TaxRate, logger)

	var (
		outcome *extract.Outcome
		err     error
	)
	if *text != "" {
		outcome, err = extractor.FromText(*text)
	} else {
		decoder := document.NewFileDecoder(logger)
		var doc *document.Document
		doc, err = decoder.Decode(context.Background(), *input)
		if err == nil {
			outcome, err = extractor.FromDocument(doc)
		}
	}
	if err != nil {
		logger.Error("extraction failed", "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		payload, err := entity.MarshalRecord(outcome.Invoice)
		if err != nil {
			logger.Error("record marshal failed", "error", err)
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(payload))
		return
	}

	printSummary(outcome)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func printSummary(outcome *extract.Outcome) {
	inv := outcome.Invoice

	fmt.Println("=== Basic Info ===")
	fmt.Printf("Invoice Number: %s\n", orDash(inv.InvoiceNumber))
	fmt.Printf("Invoice Date:   %s\n", orDash(inv.InvoiceDate))
	fmt.Printf("Invoice Type:   %s\n", orDash(inv.InvoiceType))

	fmt.Println("=== Seller ===")
	fmt.Printf("ID:   %s\n", orDash(inv.Seller.ID))
	fmt.Printf("Name: %s\n", orDash(inv.Seller.Name))

	fmt.Println("=== Buyer ===")
	fmt.Printf("ID:   %s\n", orDash(inv.Buyer.ID))
	fmt.Printf("Name: %s\n", orDash(inv.Buyer.Name))

	fmt.Println("=== Amounts ===")
	fmt.Printf("Subtotal:   %.2f\n", inv.Amounts.Subtotal)
	fmt.Printf("Tax (%.0f%%):   %.2f\n", inv.Amounts.TaxRate*100, inv.Amounts.TaxAmount)
	fmt.Printf("Total:      %.2f\n", inv.Amounts.Total)

	if len(inv.Items) > 0 {
		fmt.Println("=== Items ===")
		for _, it := range inv.Items {
			fmt.Printf("- %s x %.2f @ %.2f = %.2f\n", it.Name, it.Quantity, it.UnitPrice, it.Amount)
		}
	}

	fmt.Printf("Confidence: %.0f%%\n", outcome.Confidence*100)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
