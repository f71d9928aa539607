// Command estimate prices a single roof or vehicle hail damage request read
// from a JSON file and prints the itemized estimate as JSON. It uses the same
// catalog and calculators as the HTTP service.
//
// Usage:
//
//	go run ./cmd/estimate -kind roof -in testdata/roof.json -variant basic
//	go run ./cmd/estimate -kind auto -in testdata/auto.json -catalog catalog.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/hail-damage-service/internal/estimate"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kind := fs.String("kind", estimate.KindRoof, "calculator to run: roof or auto")
	in := fs.String("in", "", "path to the JSON request file")
	variant := fs.String("variant", "", "roof formula: advanced (default) or basic")
	catalogPath := fs.String("catalog", "", "optional YAML catalog overriding the built-in prices")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *in == "" {
		fs.Usage()
		return 2
	}

	catalog := estimate.DefaultCatalog()
	if *catalogPath != "" {
		c, err := estimate.LoadCatalog(*catalogPath)
		if err != nil {
			fmt.Fprintf(stderr, "FATAL: %v\n", err)
			return 1
		}
		catalog = c
	}
	est, err := estimate.NewEstimator(catalog, estimate.VariantAdvanced)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: read request: %v\n", err)
		return 1
	}

	result, err := compute(est, *kind, *variant, data)
	if err != nil {
		fmt.Fprintf(stderr, "estimate failed: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "FATAL: write result: %v\n", err)
		return 1
	}
	return 0
}

func compute(est *estimate.Estimator, kind, variant string, data []byte) (any, error) {
	switch kind {
	case estimate.KindRoof:
		var req estimate.RoofRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode roof request: %w", err)
		}
		return est.Roof(req, variant)
	case estimate.KindAuto:
		var req estimate.AutoRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode auto request: %w", err)
		}
		return est.Auto(req)
	default:
		return nil, fmt.Errorf("unknown kind %q: want roof or auto", kind)
	}
}
