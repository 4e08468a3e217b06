package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"LaptopStore/internal/pricing"
	"LaptopStore/internal/upgrade"
)

type optionsOutput struct {
	ProductID string                   `json:"product_id"`
	Kind      upgrade.Kind             `json:"kind"`
	RAM       []upgrade.ResolvedOption `json:"ram,omitempty"`
	SSD       []upgrade.ResolvedOption `json:"ssd,omitempty"`
	Speeds    []upgrade.SpeedOption    `json:"speeds,omitempty"`
}

func newOptionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the upgrades a product can take",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.product()
			if err != nil {
				return err
			}
			seed, err := opts.seed()
			if err != nil {
				return err
			}
			table := opts.table(cmd.Context(), seed)

			out := optionsOutput{ProductID: p.ID, Kind: p.Kind()}
			switch p.Kind() {
			case upgrade.KindLaptop:
				out.RAM = upgrade.ResolveRAMOptions(p, seed.Options, table)
				out.SSD = upgrade.ResolveSSDOptions(p, seed.Options, table)
			case upgrade.KindRAM:
				out.Speeds = upgrade.ResolveSpeedOptions(p, table)
			}

			w := cmd.OutOrStdout()
			if opts.asJSON {
				return opts.printJSON(w, out)
			}
			return printOptions(w, out)
		},
	}
	cmd.Flags().StringVar(&opts.productFile, "product", "", "product JSON file")
	return cmd
}

func printOptions(w io.Writer, out optionsOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	switch out.Kind {
	case upgrade.KindLaptop:
		fmt.Fprintln(tw, "TYPE\tID\tSIZE\tPRICE\tCUSTOM")
		for _, o := range out.RAM {
			fmt.Fprintf(tw, "ram\t%d\t%s\t%.2f\t%t\n", o.ID, o.Label, float64(o.Price), o.IsCustomPrice)
		}
		for _, o := range out.SSD {
			fmt.Fprintf(tw, "ssd\t%d\t%s\t%.2f\t%t\n", o.ID, o.Label, float64(o.Price), o.IsCustomPrice)
		}
	case upgrade.KindRAM:
		fmt.Fprintln(tw, "SPEED\tMODIFIER\tCUSTOM")
		for _, s := range out.Speeds {
			fmt.Fprintf(tw, "%s\t%.2f\t%t\n", s.Label, float64(s.PriceModifier), s.IsCustomPrice)
		}
	default:
		fmt.Fprintf(tw, "%s is not customizable\n", out.ProductID)
	}
	return tw.Flush()
}

type quoteFlags struct {
	ram, ssd int64
	speed    string
	brand    string
}

type quoteOutput struct {
	ProductID      string            `json:"product_id"`
	BasePrice      upgrade.Price     `json:"base_price"`
	TotalPrice     upgrade.Price     `json:"total_price"`
	AdditionalCost upgrade.Price     `json:"additional_cost"`
	Specs          map[string]string `json:"specs"`
}

func newQuoteCmd(opts *options) *cobra.Command {
	qf := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price one upgrade selection",
		Example: `  upgradectl quote --product laptop.json --ram 4 --ssd 8
  upgradectl quote --product ram.json --speed 3200 --brand Samsung`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.product()
			if err != nil {
				return err
			}
			seed, err := opts.seed()
			if err != nil {
				return err
			}
			table := opts.table(cmd.Context(), seed)

			out, err := quote(p, seed.Options, table, qf)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.asJSON {
				return opts.printJSON(w, out)
			}
			fmt.Fprintf(w, "base:       %.2f\n", float64(out.BasePrice))
			fmt.Fprintf(w, "upgrades:  +%.2f\n", float64(out.AdditionalCost))
			fmt.Fprintf(w, "total:      %.2f\n", float64(out.TotalPrice))
			for _, k := range []string{"ram", "storage", "speed", "brand"} {
				if v, ok := out.Specs[k]; ok {
					fmt.Fprintf(w, "%-10s  %s\n", k+":", v)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.productFile, "product", "", "product JSON file")
	f.Int64Var(&qf.ram, "ram", 0, "RAM upgrade option id (laptops)")
	f.Int64Var(&qf.ssd, "ssd", 0, "SSD upgrade option id (laptops)")
	f.StringVar(&qf.speed, "speed", "", "speed tier in MHz (RAM products)")
	f.StringVar(&qf.brand, "brand", "", "brand label (RAM products)")
	cmd.MarkFlagsMutuallyExclusive("ram", "speed")
	cmd.MarkFlagsMutuallyExclusive("ssd", "speed")
	return cmd
}

func quote(p upgrade.Product, catalog []upgrade.UpgradeOption, table pricing.Table, qf *quoteFlags) (quoteOutput, error) {
	out := quoteOutput{ProductID: p.ID, BasePrice: p.BasePrice(), Specs: map[string]string{}}

	switch p.Kind() {
	case upgrade.KindLaptop:
		if qf.speed != "" || qf.brand != "" {
			return quoteOutput{}, fmt.Errorf("--speed and --brand apply to RAM products")
		}

		c := upgrade.NewLaptopCustomizer(p, nil)
		ticket := c.BeginFetch()
		c.ApplyPricing(ticket, table)
		c.ApplyCatalog(ticket, catalog)

		if qf.ram != 0 {
			if err := c.ToggleRAM(qf.ram); err != nil {
				return quoteOutput{}, err
			}
		}
		if qf.ssd != 0 {
			if err := c.ToggleSSD(qf.ssd); err != nil {
				return quoteOutput{}, err
			}
		}

		snap := c.Snapshot()
		out.TotalPrice, out.AdditionalCost = snap.TotalPrice, snap.AdditionalCost
		out.Specs["ram"] = snap.UpdatedSpecs.RAM
		out.Specs["storage"] = snap.UpdatedSpecs.Storage

	case upgrade.KindRAM:
		if qf.ram != 0 || qf.ssd != 0 {
			return quoteOutput{}, fmt.Errorf("--ram and --ssd apply to laptops")
		}

		c := upgrade.NewRAMCustomizer(p, table, nil)
		if qf.speed != "" {
			if err := c.SelectSpeed(qf.speed); err != nil {
				return quoteOutput{}, err
			}
		}
		if qf.brand != "" {
			if err := c.SetBrand(qf.brand); err != nil {
				return quoteOutput{}, err
			}
		}

		snap := c.Snapshot()
		out.TotalPrice, out.AdditionalCost = snap.TotalPrice, snap.AdditionalCost
		out.Specs["speed"] = snap.Specs.Speed
		out.Specs["brand"] = snap.Brand

	default:
		if qf.ram != 0 || qf.ssd != 0 || qf.speed != "" || qf.brand != "" {
			return quoteOutput{}, upgrade.ErrNotCustomizable
		}
		out.TotalPrice = out.BasePrice
	}
	return out, nil
}

func newPricingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pricing",
		Short: "Print the effective pricing table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, err := opts.seed()
			if err != nil {
				return err
			}
			table := opts.table(cmd.Context(), seed)

			w := cmd.OutOrStdout()
			if opts.asJSON {
				return opts.printJSON(w, table)
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tPRICE")
			for _, k := range table.Keys() {
				fmt.Fprintf(tw, "%s\t%.2f\n", k, float64(table[k]))
			}
			return tw.Flush()
		},
	}
}
