package main

import (
	"crypto/rand"
	"io"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-ecmodp/internal/config"
	"github.com/smallyu/go-ecmodp/internal/flogging"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
	"github.com/smallyu/go-ecmodp/pkg/session"
)

var logger = flogging.MustGetLogger("cli")

// env carries what every subcommand needs once the root has loaded the
// configuration.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	random io.Reader

	configPath string
	logLevel   string
	cfg        *ecc.Config
}

func (e *env) newSession() (*session.Session, error) {
	return session.New(e.cfg, e.random)
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	e := &env{stdin: stdin, stdout: stdout, random: rand.Reader}

	rootCmd := &cobra.Command{
		Use:   "ecmodp",
		Short: "Domain parameters, keys, encryption and signatures on y^2 = x^3 - x mod p.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(e.configPath)
			if err != nil {
				return err
			}
			if e.logLevel != "" {
				cfg.Logging.Spec = e.logLevel
			}
			if err := flogging.Init(flogging.Config{
				Format: cfg.Logging.Format,
				Spec:   cfg.Logging.Spec,
			}); err != nil {
				return err
			}
			e.cfg = cfg
			// Parsing of the command line is done so silence cmd usage
			cmd.SilenceUsage = true
			return nil
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&e.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&e.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(paramsCmd(e))
	rootCmd.AddCommand(keygenCmd(e))
	rootCmd.AddCommand(encryptCmd(e))
	rootCmd.AddCommand(decryptCmd(e))
	rootCmd.AddCommand(signCmd(e))
	rootCmd.AddCommand(verifyCmd(e))
	return rootCmd
}
