package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tabtile/tabtile/internal/application/usecase"
	"github.com/tabtile/tabtile/internal/domain/entity"
)

var splitJSON bool

var splitCmd = &cobra.Command{
	Use:   "split <left-tab-id> <right-tab-id>",
	Short: "Tile two tabs side by side",
	Long: `Split replaces the focused window with two tiled windows: the left tab
gets the left half, the right tab the right half. The two halves cover the
original width exactly. The original window is closed when the two tabs
were the only ones left in it.

Tab ids come from 'tabtile tabs'.

Examples:
  tabtile split 3 7
  tabtile split 3 7 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().BoolVar(&splitJSON, "json", false, "output as JSON")
}

func runSplit(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	left, err := parseTabID(args[0])
	if err != nil {
		return err
	}
	right, err := parseTabID(args[1])
	if err != nil {
		return err
	}

	arrange, err := app.Arrange()
	if err != nil {
		return err
	}

	out, err := arrange.Split(app.Ctx(), usecase.SplitInput{LeftTabID: left, RightTabID: right})
	if err != nil {
		return err
	}
	return printSplit(out)
}

func parseTabID(arg string) (entity.TabID, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid tab id %q", arg)
	}
	return entity.TabID(id), nil
}

func printSplit(out *usecase.SplitOutput) error {
	if splitJSON || quickJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"leftWindowId":  out.LeftWindowID,
			"rightWindowId": out.RightWindowID,
			"leftRect":      out.LeftRect,
			"rightRect":     out.RightRect,
			"originClosed":  out.OriginClosed,
		})
	}

	fmt.Printf("left   window %d at %s\n", out.LeftWindowID, formatRect(out.LeftRect))
	fmt.Printf("right  window %d at %s\n", out.RightWindowID, formatRect(out.RightRect))
	if out.OriginClosed {
		fmt.Println("original window closed")
	}
	return nil
}

func formatRect(r entity.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.Left, r.Top)
}
