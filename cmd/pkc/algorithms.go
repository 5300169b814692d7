package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
)

var descriptions = map[string]string{
	pkc.AlgorithmRSA:     "RSA with OAEP padding, e = 65537",
	pkc.AlgorithmElGamal: "ElGamal over the RFC 3526 2048-bit MODP group, block mode for long messages",
	pkc.AlgorithmECC:     "ECIES on secp256k1: ECDH, hash keystream, HMAC tag",
}

func newAlgorithmsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the available algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Description"})
			table.SetAutoWrapText(false)
			for _, name := range a.reg.List() {
				table.Append([]string{name, descriptions[name]})
			}
			table.Render()
			return nil
		},
	}
}
