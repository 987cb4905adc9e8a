package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/config"
)

// CheckBackendCommand verifies that the finance backend answers.
type CheckBackendCommand struct {
	URL     string
	Timeout time.Duration

	out io.Writer
}

func NewCheckBackendCommand() *CheckBackendCommand {
	return &CheckBackendCommand{out: os.Stdout}
}

func (cmd *CheckBackendCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("check-backend", flag.ContinueOnError)

	defaultURL := os.Getenv("API_URL")
	if defaultURL == "" {
		defaultURL = config.DefaultAPIURL
	}
	fs.StringVar(&cmd.URL, "url", defaultURL, "Backend API base URL")
	fs.DurationVar(&cmd.Timeout, "timeout", 5*time.Second, "Request timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s check-backend [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Check that the finance backend is reachable.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CheckBackendCommand) Run() error {
	client := apiclient.New(cmd.URL, apiclient.WithTimeout(cmd.Timeout))

	start := time.Now()
	if err := client.Ping(context.Background()); err != nil {
		return fmt.Errorf("backend %s is unreachable: %w", client.BaseURL(), err)
	}

	fmt.Fprintf(cmd.out, "Backend %s reachable in %s\n", client.BaseURL(), time.Since(start).Round(time.Millisecond))
	return nil
}
