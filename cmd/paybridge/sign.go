package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mihaimyh/paybridge/pkg/billing/billplz"
)

func newSignCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "sign key=value...",
		Short: "Compute the x_signature for a set of callback fields",
		Long: `Compute the Billplz x_signature for a set of callback fields.

The secret defaults to BILLPLZ_X_SIGNATURE. Any x_signature argument is ignored.

Example:
  paybridge sign id=W_79pJDk paid=true state=paid amount=10000 --secret S3cr3t`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("BILLPLZ_X_SIGNATURE")
			}
			if secret == "" {
				return fmt.Errorf("secret is required (--secret or BILLPLZ_X_SIGNATURE)")
			}

			fields, err := parseFields(args)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), billplz.ComputeSignature(fields, secret))
			return err
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "X Signature key")

	return cmd
}

func parseFields(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q (want key=value)", arg)
		}
		fields[key] = value
	}
	return fields, nil
}
