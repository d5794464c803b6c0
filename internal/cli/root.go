package cli

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	bsale "github.com/stockflow/go-bsale"
	"github.com/stockflow/go-bsale/observability"
)

// app holds state shared by every command of one invocation.
type app struct {
	env *Env

	configPath string
	output     string
	baseURL    string

	cfg    *Config
	logger zerolog.Logger
	client *bsale.Client
}

// NewRootCmd builds the bsale command tree.
func NewRootCmd(env *Env) *cobra.Command {
	a := &app{env: env.withDefaults(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "bsale",
		Short: "Query and manage a Bsale account from the command line",
		Long: `bsale talks to the Bsale REST API. Credentials are read from bsale.yaml
(./ or ~/.config/bsale/) and BSALE_* environment variables, e.g.
BSALE_ACCESS_TOKEN and BSALE_EXPIRES_AT (RFC 3339).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./bsale.yaml or ~/.config/bsale/bsale.yaml)")
	flags.StringVarP(&a.output, "output", "o", FormatJSON, "output format: json or yaml")
	flags.StringVar(&a.baseURL, "base-url", "", "override the API base URL")

	root.AddCommand(
		newCredentialsCmd(a),
		newProductsCmd(a),
		newVariantsCmd(a),
		newStocksCmd(a),
		newDocumentsCmd(a),
		newWebhooksCmd(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	if a.output != FormatJSON && a.output != FormatYAML {
		return errors.Newf("unknown output format %q (want json or yaml)", a.output)
	}

	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}

	a.cfg = cfg
	a.logger = NewLogger(cfg.Log, a.env.Stderr)
	a.logger.Debug().Str("command", cmd.CommandPath()).Str("base_url", cfg.BaseURL).Msg("configuration loaded")

	return nil
}

// apiClient lazily builds the client so commands that never call the API
// do not require valid credentials.
func (a *app) apiClient() (*bsale.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	creds := a.cfg.Credentials()
	if creds.ExpiresAt.IsZero() {
		// A missing or unreadable expires_at counts as expired.
		return nil, bsale.NewAuthenticationError("Access token expired. Please refresh.")
	}

	client, err := a.env.NewClient(&bsale.ClientConfig{
		Credentials:        creds,
		BaseURL:            a.cfg.BaseURL,
		Timeout:            a.cfg.Timeout,
		RateLimitPerMinute: a.cfg.RateLimit,
		Logger:             observability.NewZerologLogger(a.logger),
	})
	if err != nil {
		return nil, err
	}

	a.client = client
	return client, nil
}

func (a *app) print(v any) error {
	return Print(a.env.Stdout, a.output, v)
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, env *Env, args []string) int {
	env = env.withDefaults()

	root := NewRootCmd(env)
	root.SetArgs(args)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(env.Stderr, FormatError(err))
		return 1
	}

	return 0
}

// FormatError renders err for the terminal, prefixed with its kind when it
// came from the API client.
func FormatError(err error) string {
	var bErr *bsale.Error
	if !errors.As(err, &bErr) {
		return "error: " + err.Error()
	}

	msg := fmt.Sprintf("error [%s]: %s", bErr.Kind, err.Error())
	if bErr.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", bErr.StatusCode)
	}
	for _, fe := range bErr.Errors {
		if fe.Field != "" {
			msg += fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message)
		} else {
			msg += "\n  " + fe.Message
		}
	}

	return msg
}
