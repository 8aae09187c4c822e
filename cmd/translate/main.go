// Command translate resolves text from the command line:
//
//	translate [-config path] [-source en] [-target ru] <text...>
//
// The translation-only summary is printed as soon as it is known, then the
// full summary once phonetic and example lookups finish.
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/heartmarshall/quicktranslate/internal/app"
	"github.com/heartmarshall/quicktranslate/internal/config"
	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/service/translation"
)

const absent = "<none>"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML configuration file")
	source := flag.String("source", "", "source language (default from config)")
	target := flag.String("target", "", "target language (default from config)")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "usage: translate [-config path] [-source en] [-target ru] <text...>")
		os.Exit(2)
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *source == "" {
		*source = cfg.Translate.DefaultSourceLang
	}
	if *target == "" {
		*target = cfg.Translate.DefaultTargetLang
	}

	// stdout is reserved for the summaries.
	cfg.Log.Level = "warn"
	if *verbose {
		cfg.Log.Level = "debug"
	}
	cfg.Log.Format = "text"
	cfg.Metrics.Enabled = false
	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := app.NewStack(ctx, cfg, logger, app.Options{})
	if err != nil {
		log.Fatalf("build stack: %v", err)
	}
	defer stack.Close(context.Background())

	var mu sync.Mutex
	input := translation.TranslateInput{Text: text, SourceLang: *source, TargetLang: *target}
	result, err := stack.Service.Translate(ctx, input, func(partial domain.TranslationResult) {
		mu.Lock()
		defer mu.Unlock()
		writeSummary(os.Stdout, partial, *source, *target, "")
		fmt.Fprintln(os.Stdout)
	})
	if err != nil {
		stack.Close(context.Background())
		log.Fatalf("translate: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	writeSummary(os.Stdout, result, *source, *target, absent)
}

// writeSummary prints one line per field, with missing standing in for absent ones.
func writeSummary(w io.Writer, r domain.TranslationResult, source, target, missing string) {
	value := func(s *string) string {
		if s == nil {
			return missing
		}
		return *s
	}
	fmt.Fprintf(w, "translation_%s: %s\n", target, value(r.Translation))
	fmt.Fprintf(w, "ipa_uk: %s\n", value(r.Phonetic))
	fmt.Fprintf(w, "example_%s: %s\n", source, value(r.ExampleSource))
	fmt.Fprintf(w, "example_%s: %s\n", target, value(r.ExampleTarget))
}
