package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/fintrack/internal/auth"
)

// GenerateSecretCommand prints a value suitable for AUTH_SESSION_SECRET.
type GenerateSecretCommand struct {
	Env bool

	out io.Writer
}

func NewGenerateSecretCommand() *GenerateSecretCommand {
	return &GenerateSecretCommand{out: os.Stdout}
}

func (cmd *GenerateSecretCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("generate-secret", flag.ContinueOnError)
	fs.BoolVar(&cmd.Env, "env", false, "Print as an AUTH_SESSION_SECRET= line for a .env file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s generate-secret [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate a random secret for CSRF protection.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *GenerateSecretCommand) Run() error {
	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}
	if cmd.Env {
		fmt.Fprintf(cmd.out, "AUTH_SESSION_SECRET=%s\n", secret)
		return nil
	}
	fmt.Fprintln(cmd.out, secret)
	return nil
}
