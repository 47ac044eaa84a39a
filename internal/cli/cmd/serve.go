package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tabtile/tabtile/internal/app/messaging"
	"github.com/tabtile/tabtile/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a native-messaging host for the browser extension",
	Long: `Serve speaks the WebExtension native-messaging protocol on stdin and
stdout: each message is a 32-bit little-endian length followed by a JSON
document. The browser launches this command itself when the extension
connects; running it from a terminal is only useful for debugging.

Logs go to stderr, stdout is reserved for the protocol.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	arrange, err := app.Arrange()
	if err != nil {
		return err
	}
	reference, err := app.Reference()
	if err != nil {
		return err
	}

	log := logging.FromContext(ctx)

	// Config edits apply live for the duration of the session.
	if err := app.WatchConfig(); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}

	log.Info().Msg("native messaging host started")

	codec := messaging.NewCodec(os.Stdin, os.Stdout)
	handler := messaging.NewHandler(arrange, reference)
	serveErr := messaging.Serve(ctx, codec, handler)

	// Bound the journal before exit; the session end is the natural moment.
	if repo := app.Journal(); repo != nil {
		if err := repo.Prune(app.Ctx(), app.Config.Journal.MaxEntries); err != nil {
			log.Warn().Err(err).Msg("journal prune failed")
		}
	}

	log.Info().Msg("native messaging host stopped")
	return serveErr
}
