package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"LaptopStore/internal/catalog"
	"LaptopStore/internal/pricing"
	"LaptopStore/internal/upgrade"
	"LaptopStore/pkg/kit"
)

type options struct {
	productFile string
	seedFile    string
	pricingURL  string
	asJSON      bool
	verbose     bool
	timeout     time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "upgradectl",
		Short: "Price laptop and RAM upgrades offline",
		Long: `upgradectl resolves upgrade options and quotes for a single product.

The product is read from a JSON file. Upgrade options come from a catalog seed
file (or the built-in demo catalog). Pricing comes from --pricing-url, then the
seed's pricing section, then the built-in defaults.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := kit.LoadEnv(); err != nil {
				return err
			}
			if opts.pricingURL == "" {
				opts.pricingURL = os.Getenv("PRICING_URL")
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.seedFile, "seed", "", "catalog seed YAML with upgrade_options and pricing")
	pf.StringVar(&opts.pricingURL, "pricing-url", "", "base URL of a catalog service serving GET /pricing")
	pf.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log pricing fetches to stderr")
	pf.DurationVar(&opts.timeout, "timeout", 5*time.Second, "overall timeout for remote pricing")

	root.AddCommand(newOptionsCmd(opts), newQuoteCmd(opts), newPricingCmd(opts))
	return root
}

func (o *options) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// seed loads the catalog with inactive options removed, matching what the
// catalog service offers customers.
func (o *options) seed() (catalog.Seed, error) {
	seed := catalog.DefaultSeed()
	if o.seedFile != "" {
		var err error
		if seed, err = catalog.LoadSeedFile(o.seedFile); err != nil {
			return catalog.Seed{}, err
		}
	}
	seed.Options = catalog.ActiveOptions(seed.Options)
	return seed, nil
}

// table returns the effective pricing. An unreachable remote source yields the
// defaults.
func (o *options) table(ctx context.Context, seed catalog.Seed) pricing.Table {
	if o.pricingURL == "" {
		return pricing.Defaults().Merge(seed.Pricing)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prov := pricing.NewProvider(pricing.NewHTTPSource(o.pricingURL), pricing.ProviderDeps{Log: o.logger()})
	return prov.Pricing(ctx)
}

func (o *options) product() (upgrade.Product, error) {
	if o.productFile == "" {
		return upgrade.Product{}, fmt.Errorf("--product is required")
	}

	raw, err := os.ReadFile(o.productFile)
	if err != nil {
		return upgrade.Product{}, err
	}

	var p upgrade.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return upgrade.Product{}, fmt.Errorf("parse product %s: %w", o.productFile, err)
	}
	return p, nil
}

func (o *options) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
