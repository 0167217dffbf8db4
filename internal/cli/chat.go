package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"folio/internal/client"
	"folio/internal/config"
	"folio/internal/content"
	"folio/internal/tui"
)

var chatFlags struct {
	server    string
	interview bool
	plain     bool
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a folio server from the terminal",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatFlags.server, "server", "", "server base URL (default http://localhost:$PORT)")
	chatCmd.Flags().BoolVar(&chatFlags.interview, "interview", false, "start in interview mode; the assistant asks first")
	chatCmd.Flags().BoolVar(&chatFlags.plain, "plain", false, "line mode even on a terminal")
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	server := chatFlags.server
	if server == "" {
		server = "http://localhost:" + cfg.Port
	}

	// The UI owns the terminal, so logs only go to a file.
	logOut := io.Discard
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, "chat", cfg.LogMaxFiles)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(cfg, logOut)

	catalog, err := content.Default()
	if err != nil {
		return fmt.Errorf("load content catalog: %w", err)
	}

	logger.Info("chat session starting", "server", server, "interview", chatFlags.interview)
	return tui.Run(cmd.Context(), tui.Options{
		Transport:   client.NewHTTPTransport(server),
		Catalog:     catalog,
		Logger:      logger,
		Interview:   chatFlags.interview,
		Interactive: !chatFlags.plain && isInteractiveTerminal(),
		In:          cmd.InOrStdin(),
		Out:         cmd.OutOrStdout(),
	})
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
