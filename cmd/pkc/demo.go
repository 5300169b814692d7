package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const defaultMessage = "Hello, Public-Key Cryptography!"

func newDemoCmd(a *app) *cobra.Command {
	var (
		algs    []string
		message string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate keys, encrypt a message and decrypt it again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := algs
			if len(names) == 0 {
				names = a.reg.List()
			}
			ctx, cancel := a.keygenContext(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			for _, name := range names {
				alg, err := a.reg.Get(name)
				if err != nil {
					return err
				}
				kp, err := alg.GenerateKeys(ctx)
				if err != nil {
					return err
				}
				env, err := alg.Encrypt(message, kp.Public)
				if err != nil {
					return err
				}
				raw, err := env.MarshalIndent()
				if err != nil {
					return err
				}
				got, err := alg.Decrypt(env, kp.Private)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "== %s ==\n", alg.Name())
				fmt.Fprintf(out, "plaintext: %q\n", message)
				fmt.Fprintf(out, "envelope:\n%s\n", raw)
				fmt.Fprintf(out, "decrypted: %q\n", got)
				if got != message {
					return fmt.Errorf("%s: round trip mismatch", alg.Name())
				}
				fmt.Fprintln(out, "round trip: ok")
				fmt.Fprintln(out)
				a.logger.Info(ctx, "demo completed", "alg", alg.Name(), "bytes", len(message))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&algs, "alg", nil, "algorithms to run (default all)")
	cmd.Flags().StringVarP(&message, "message", "m", defaultMessage, "message to encrypt")
	return cmd
}
