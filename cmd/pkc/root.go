package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pkcdemo/pkc-go/internal/config"
	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/logging"
	"github.com/pkcdemo/pkc-go/pkg/pkc/registry"
)

// app carries the state shared by all subcommands once flags are parsed.
type app struct {
	cfgFile string
	cfg     pkc.Config
	logger  logging.Logger
	reg     *registry.Registry
	stderr  io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}
	root := &cobra.Command{
		Use:          "pkc",
		Short:        "Public-key encryption playground (RSA-OAEP, ElGamal, ECIES)",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newAlgorithmsCmd(a),
		newKeygenCmd(a),
		newDemoCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.stderr = cmd.ErrOrStderr()

	logger, err := newLogger(cfg, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger

	reg, err := registry.New(cfg, registry.WithLogger(logger))
	if err != nil {
		return err
	}
	a.reg = reg
	logger.Debug(cmd.Context(), "configuration loaded", "rsa_bits", cfg.RSABits, "hash", cfg.Hash, "config_file", a.cfgFile)
	return nil
}

// newLogger builds the zerolog-backed logger selected by the configuration.
func newLogger(cfg pkc.Config, w io.Writer) (logging.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	out := w
	if strings.EqualFold(cfg.LogFormat, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}
	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logging.NewZerolog(zl), nil
}
