package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/smallyu/go-ecmodp/pkg/session"
)

func paramsCmd(e *env) *cobra.Command {
	var (
		out  string
		bits int
	)
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Generate domain parameters (p, q, G) and write them as YAML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bits > 0 {
				e.cfg.Bits = bits
			}
			s, err := e.newSession()
			if err != nil {
				return err
			}
			if err := s.GenerateParams(context.Background()); err != nil {
				return err
			}
			params, err := s.Params()
			if err != nil {
				return err
			}
			logger.Infof("Writing %d-bit domain parameters to %s", params.P.BitLen(), out)
			return writeYAML(out, params)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "params.yaml", "output file")
	cmd.Flags().IntVar(&bits, "bits", 0, "bit length of p, overrides the configuration")
	return cmd
}

func keygenCmd(e *env) *cobra.Command {
	var paramsPath, out, publicOut string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair over existing domain parameters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := readParams(paramsPath)
			if err != nil {
				return err
			}
			s, err := e.newSession()
			if err != nil {
				return err
			}
			if err := s.ImportParams(params); err != nil {
				return err
			}
			if err := s.GenerateKey(); err != nil {
				return err
			}
			key, err := s.ExportKey()
			if err != nil {
				return err
			}
			if err := writeYAML(out, key); err != nil {
				return err
			}
			if publicOut != "" {
				return writeYAML(publicOut, key.Public())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&paramsPath, "params", "params.yaml", "domain parameter file")
	cmd.Flags().StringVarP(&out, "out", "o", "key.yaml", "private key output file")
	cmd.Flags().StringVar(&publicOut, "public", "", "optional public key output file")
	return cmd
}

func encryptCmd(e *env) *cobra.Command {
	var keyPath, inPath string
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt input to a public key; prints base-64 ciphertext.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.loadKey(keyPath)
			if err != nil {
				return err
			}
			msg, err := e.readInput(inPath)
			if err != nil {
				return err
			}
			ct, err := s.EncryptToString(msg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.stdout, ct)
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "key.yaml", "key file")
	cmd.Flags().StringVar(&inPath, "in", "-", "input file, - for stdin")
	return cmd
}

func decryptCmd(e *env) *cobra.Command {
	var keyPath, inPath string
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt base-64 ciphertext with a private key.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.loadKey(keyPath)
			if err != nil {
				return err
			}
			in, err := e.readInput(inPath)
			if err != nil {
				return err
			}
			pt, err := s.DecryptString(strings.TrimSpace(string(in)))
			if err != nil {
				return err
			}
			_, err = e.stdout.Write(pt)
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "key.yaml", "key file")
	cmd.Flags().StringVar(&inPath, "in", "-", "input file, - for stdin")
	return cmd
}

func signCmd(e *env) *cobra.Command {
	var keyPath, inPath string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign input with a private key; prints the base-64 DER signature.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.loadKey(keyPath)
			if err != nil {
				return err
			}
			msg, err := e.readInput(inPath)
			if err != nil {
				return err
			}
			der, err := s.SignMessage(msg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.stdout, base64.StdEncoding.EncodeToString(der))
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "key.yaml", "key file")
	cmd.Flags().StringVar(&inPath, "in", "-", "input file, - for stdin")
	return cmd
}

// errInvalidSignature makes verify exit non-zero without printing usage.
var errInvalidSignature = errors.New("signature verification failed")

func verifyCmd(e *env) *cobra.Command {
	var keyPath, inPath, sig string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a base-64 DER signature over input.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.loadKey(keyPath)
			if err != nil {
				return err
			}
			msg, err := e.readInput(inPath)
			if err != nil {
				return err
			}
			der, err := base64.StdEncoding.DecodeString(strings.TrimSpace(sig))
			if err != nil {
				return errors.Wrap(err, "decoding signature")
			}
			if !s.VerifyMessage(msg, der) {
				return errInvalidSignature
			}
			_, err = fmt.Fprintln(e.stdout, "OK")
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "key.yaml", "key file")
	cmd.Flags().StringVar(&inPath, "in", "-", "input file, - for stdin")
	cmd.Flags().StringVar(&sig, "sig", "", "base-64 DER signature")
	cmd.MarkFlagRequired("sig")
	return cmd
}

func (e *env) loadKey(path string) (*session.Session, error) {
	key, err := readKey(path)
	if err != nil {
		return nil, err
	}
	s, err := e.newSession()
	if err != nil {
		return nil, err
	}
	if err := s.ImportKey(key); err != nil {
		return nil, err
	}
	return s, nil
}

func (e *env) readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(e.stdin)
	}
	b, err := os.ReadFile(path)
	return b, errors.Wrapf(err, "reading %s", path)
}
