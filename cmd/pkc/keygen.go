package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/logging"
)

func newKeygenCmd(a *app) *cobra.Command {
	var (
		algs        []string
		showSecrets bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate key pairs and print their components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.keygenContext(cmd.Context())
			defer cancel()

			pairs, err := a.reg.GenerateAll(ctx, algs...)
			if err != nil {
				return err
			}
			names := algs
			if len(names) == 0 {
				names = a.reg.List()
			}
			for _, name := range names {
				alg, err := a.reg.Get(name)
				if err != nil {
					return err
				}
				printKeyPair(cmd.OutOrStdout(), pairs[alg.Name()], showSecrets)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&algs, "alg", nil, "algorithms to generate keys for (default all)")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print private components instead of a placeholder")
	return cmd
}

// keygenContext applies the configured key generation timeout to parent.
func (a *app) keygenContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if a.cfg.KeygenTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, a.cfg.KeygenTimeout)
}

func printKeyPair(w io.Writer, kp *pkc.KeyPair, showSecrets bool) {
	fmt.Fprintf(w, "%s key pair\n", kp.Algorithm)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Part", "Name", "Bits", "Value"})
	table.SetAutoWrapText(false)
	appendComponents(table, "public", kp.Public.Components(), showSecrets)
	appendComponents(table, "private", kp.Private.Components(), showSecrets)
	table.Render()
	fmt.Fprintln(w)
}

func appendComponents(table *tablewriter.Table, part string, comps []pkc.KeyComponent, showSecrets bool) {
	for _, c := range comps {
		value := c.Value
		if c.Secret && !showSecrets {
			value = logging.Placeholder()
		}
		table.Append([]string{part, c.Name, strconv.Itoa(c.Bits), value})
	}
}
