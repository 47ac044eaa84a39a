package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the browser endpoint is reachable",
	Long: `Doctor probes the configured DevTools endpoint and reports the browser
behind it, then checks that the journal store is usable.

Examples:
  tabtile doctor`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// versionReply is the subset of /json/version we report.
type versionReply struct {
	Browser         string `json:"Browser"`
	ProtocolVersion string `json:"Protocol-Version"`
	WebSocketURL    string `json:"webSocketDebuggerUrl"`
}

func runDoctor(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	debugURL := strings.TrimRight(app.Config.Host.DebugURL, "/")
	fmt.Printf("endpoint  %s\n", debugURL)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(debugURL + "/json/version")
	if err != nil {
		fmt.Println("browser   UNREACHABLE")
		fmt.Println()
		fmt.Println("Start the browser with --remote-debugging-port, e.g.:")
		fmt.Println("  chromium --remote-debugging-port=9222")
		return fmt.Errorf("probe %s: %w", debugURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var reply versionReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decode version reply: %w", err)
	}
	fmt.Printf("browser   %s (protocol %s)\n", reply.Browser, reply.ProtocolVersion)

	if app.Journal() != nil {
		fmt.Printf("journal   ok (%s)\n", app.Config.Journal.Path)
	} else if app.Config.Journal.Enabled {
		fmt.Println("journal   UNAVAILABLE (see logs)")
	} else {
		fmt.Println("journal   disabled")
	}
	return nil
}
