package serve_lsp

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/glsp/server"
	"gitlab.com/tozd/go/errors"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/lsp"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/semantics"
)

type Handler struct {
	debug           bool
	enableConstants bool
}

func NewServeLSPCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the language server on stdio",
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&me.enableConstants, "enable-constants", false, "recognize the Constants template section")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	level := zerolog.InfoLevel
	verbosity := 0
	if me.debug {
		level = zerolog.TraceLevel
		verbosity = 2
	}
	// The client owns stdout; all logging goes to stderr.
	logger := zerolog.New(os.Stderr).With().
		Str("component", "lsp-server").
		Timestamp().
		Logger().
		Level(level)
	commonlog.Configure(verbosity, nil)

	srv, err := lsp.NewServer(lsp.Options{
		Settings: semantics.Settings{EnableConstants: me.enableConstants},
		Logger:   logger,
	})
	if err != nil {
		return errors.Errorf("building language server: %w", err)
	}

	instance := server.NewServer(srv.Handler(), "cfn-language-server", me.debug)
	if err := instance.RunStdio(); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}
