package cli

import (
	"io"
	"os"
	"time"

	bsale "github.com/stockflow/go-bsale"
)

// Env carries the process dependencies commands use, so tests can swap them.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time

	// NewClient builds the API client once configuration is loaded.
	NewClient func(cfg *bsale.ClientConfig) (*bsale.Client, error)
}

// DefaultEnv returns an Env bound to the real process.
func DefaultEnv() *Env {
	return &Env{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Now:       time.Now,
		NewClient: bsale.NewWithConfig,
	}
}

func (e *Env) withDefaults() *Env {
	out := *e
	def := DefaultEnv()
	if out.Stdout == nil {
		out.Stdout = def.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = def.Stderr
	}
	if out.Now == nil {
		out.Now = def.Now
	}
	if out.NewClient == nil {
		out.NewClient = def.NewClient
	}
	return &out
}
