package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/zhravan/juztadrop-sub000/pkg/crypto"
)

const (
	defaultBytes = 32
	minBytes     = 16
)

func validateInputs(n int) error {
	if n < minBytes {
		return fmt.Errorf("invalid bytes: %d (minimum %d)", n, minBytes)
	}
	return nil
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("authid-gen", flag.ContinueOnError)
	n := fs.Int("bytes", defaultBytes, "random bytes in the secret")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validateInputs(*n); err != nil {
		return err
	}

	secret, err := crypto.GenerateRandomToken(*n)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, "Generated moderator shared secret")
	_, _ = fmt.Fprintf(out, "X_AUTH_ID=%s\n", secret)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
