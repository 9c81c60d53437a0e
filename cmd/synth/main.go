package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/toyz/synth/internal/config"
	"github.com/toyz/synth/internal/utils"
	"github.com/toyz/synth/pkg/descriptor"
	"github.com/toyz/synth/pkg/fixtures"
	"github.com/toyz/synth/pkg/fixtures/adapters"
	"github.com/toyz/synth/pkg/synth"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	count      int
	seed       uint64
	seeded     bool
	serve      string
	framework  string
	indent     bool
	verbose    bool
	quiet      bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("synth", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "YAML file with bounds, bindings and enums")
	fs.IntVar(&opts.count, "n", 1, "Number of values to generate per type expression")
	seed := fs.Uint64("seed", 0, "Seed for repeatable output")
	fs.StringVar(&opts.serve, "serve", "", "Serve fixtures over HTTP on this address instead of printing")
	fs.StringVar(&opts.framework, "framework", "gin", "Web framework used by --serve (gin, echo, fiber)")
	fs.BoolVar(&opts.indent, "indent", false, "Indent JSON output")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output, including cycle truncation")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only show errors")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: synth [options] <type-expressions...>\n\n")
		fmt.Fprintf(stderr, "Synth Value Generator\n")
		fmt.Fprintf(stderr, "Generates random values for Go type expressions and prints them as JSON.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  synth 'map[string][]int'                 # One random map\n")
		fmt.Fprintf(stderr, "  synth -n 3 -seed 42 uuid.UUID time.Time  # Repeatable values\n")
		fmt.Fprintf(stderr, "  synth -config synth.yaml int             # Apply bindings from a file\n")
		fmt.Fprintf(stderr, "  synth -serve :8080 -framework echo       # Serve GET /fixtures/<type>\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seeded = true
		}
	})
	opts.seed = *seed

	var diagnostics *utils.DiagnosticSystem
	switch {
	case opts.quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case opts.verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticWarn)
	}
	diagnostics.SetOutput(stderr)

	exprs := fs.Args()
	if len(exprs) == 0 && opts.serve == "" {
		diagnostics.Error("At least one type expression is required")
		fs.Usage()
		return 1
	}
	if opts.count < 1 {
		diagnostics.Error("-n must be at least 1, got %d", opts.count)
		return 1
	}

	catalog := descriptor.NewCatalog()
	gen, err := buildGenerator(opts, catalog, diagnostics)
	if err != nil {
		diagnostics.Error("%v", err)
		return 1
	}

	if opts.serve != "" {
		if err := serve(opts, fixtures.NewServer(gen, catalog), diagnostics); err != nil {
			diagnostics.Error("%v", err)
			return 1
		}
		return 0
	}

	enc := json.NewEncoder(stdout)
	if opts.indent {
		enc.SetIndent("", "  ")
	}
	total := 0
	for _, expr := range exprs {
		t, err := descriptor.Parse(expr, catalog)
		if err != nil {
			diagnostics.Error("%v", err)
			return 1
		}
		diagnostics.Verbose("Generating %d value(s) of %s", opts.count, t)

		for i := 0; i < opts.count; i++ {
			v, err := gen.Generate(t)
			if err != nil {
				diagnostics.Error("%v", err)
				return 1
			}
			if err := enc.Encode(v); err != nil {
				diagnostics.Error("Failed to encode %s: %v", t, err)
				return 1
			}
			total++
		}
	}

	diagnostics.Summary("Generation summary", map[string]interface{}{
		"expressions": len(exprs),
		"values":      total,
		"seed":        seedLabel(opts),
	})
	diagnostics.Success("Generated %d value(s)", total)
	return 0
}

func seedLabel(opts options) string {
	if opts.seeded {
		return strconv.FormatUint(opts.seed, 10)
	}
	return "random"
}

// bindingTarget names what a config binding applies to, e.g. models.user.Email
func bindingTarget(b config.Binding) string {
	var parts []string
	for _, p := range []string{b.Container, b.Type, b.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

func buildGenerator(opts options, catalog *descriptor.Catalog, diagnostics *utils.DiagnosticSystem) (*synth.Generator, error) {
	genOpts := []synth.Option{synth.WithLogger(diagnostics)}

	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		fromFile, err := cfg.Options(catalog)
		if err != nil {
			return nil, err
		}
		diagnostics.Section("Configuration " + opts.configPath)
		diagnostics.Indent()
		for _, b := range cfg.Bindings {
			diagnostics.List("%s binding %s", b.Scope, bindingTarget(b))
		}
		for _, e := range cfg.Enums {
			diagnostics.List("enum %s (%d values)", e.Type, len(e.Values))
		}
		diagnostics.Unindent()
		genOpts = append(genOpts, fromFile...)
	}
	// the flag wins over the file
	if opts.seeded {
		genOpts = append(genOpts, synth.WithSeed(opts.seed))
	}
	return synth.New(genOpts...)
}

func newWebServer(framework string) (fixtures.WebServer, error) {
	switch strings.ToLower(framework) {
	case "gin":
		return adapters.NewDefaultGinAdapter(), nil
	case "echo":
		return adapters.NewDefaultEchoAdapter(), nil
	case "fiber":
		return adapters.NewDefaultFiberAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown framework %q, expected gin, echo or fiber", framework)
	}
}

func serve(opts options, server *fixtures.Server, diagnostics *utils.DiagnosticSystem) error {
	web, err := newWebServer(opts.framework)
	if err != nil {
		return err
	}
	web.Mount("/fixtures", server)

	errCh := make(chan error, 1)
	go func() {
		errCh <- web.Start(opts.serve)
	}()
	diagnostics.Info("Serving fixtures with %s on %s", web.Name(), opts.serve)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	diagnostics.Info("Shutting down %s", web.Name())
	return web.Stop(ctx)
}
