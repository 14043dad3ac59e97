package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mihaimyh/paybridge/internal/config"
	"github.com/mihaimyh/paybridge/pkg/invoice"
)

type renderOptions struct {
	out    string
	number string
	prefix string
	inv    invoice.Invoice
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an invoice PDF locally",
		Long: `Render an invoice PDF with the configured letterhead without sending it.

Example:
  paybridge render --name "Aisyah" --email a@example.my --amount 10000 --bill-id W_79pJDk --out invoice.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runRender(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "invoice.pdf", "output file")
	cmd.Flags().StringVar(&opts.number, "number", "", "invoice number (generated when empty)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "invoice number prefix (default INVOICE_PREFIX)")
	cmd.Flags().StringVar(&opts.inv.Name, "name", "", "payer name")
	cmd.Flags().StringVar(&opts.inv.Email, "email", "", "payer email")
	cmd.Flags().StringVar(&opts.inv.Amount, "amount", "", "amount in sen")
	cmd.Flags().StringVar(&opts.inv.BillID, "bill-id", "", "Billplz bill id")
	cmd.Flags().StringVar(&opts.inv.PaidAt, "paid-at", "", "payment timestamp as reported by Billplz")

	return cmd
}

func runRender(cmd *cobra.Command, cfg *config.Config, opts renderOptions) error {
	inv := opts.inv
	inv.IssuedAt = time.Now()
	inv.Number = opts.number
	if inv.Number == "" {
		prefix := opts.prefix
		if prefix == "" {
			prefix = cfg.InvoicePrefix
		}
		inv.Number = invoice.NewNumberGenerator(prefix).Next()
	}

	pdf, err := invoice.NewRenderer(cfg.Letterhead()).Render(inv)
	if err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	if err := os.WriteFile(opts.out, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s written to %s (%d bytes)\n", inv.Number, opts.out, len(pdf))
	return err
}
