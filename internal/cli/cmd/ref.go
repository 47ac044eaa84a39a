package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tabtile/tabtile/internal/domain/entity"
)

var refCmd = &cobra.Command{
	Use:   "ref",
	Short: "Manage floating reference windows",
	Long: `Reference windows are narrow unfocused windows docked at the right edge
of the current window, meant for documentation kept visible while working.
At most three can be open at a time.`,
}

var refAddCmd = &cobra.Command{
	Use:   "add <tab-id>",
	Short: "Open a reference window for a tab",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefAdd,
}

var refCloseCmd = &cobra.Command{
	Use:   "close <window-id>",
	Short: "Close a tracked reference window",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefClose,
}

var refCloseAllCmd = &cobra.Command{
	Use:   "close-all",
	Short: "Close every tracked reference window",
	Args:  cobra.NoArgs,
	RunE:  runRefCloseAll,
}

var refListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked reference windows",
	Args:  cobra.NoArgs,
	RunE:  runRefList,
}

func init() {
	rootCmd.AddCommand(refCmd)
	refCmd.AddCommand(refAddCmd, refCloseCmd, refCloseAllCmd, refListCmd)
}

func runRefAdd(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	tabID, err := parseTabID(args[0])
	if err != nil {
		return err
	}

	reference, err := app.Reference()
	if err != nil {
		return err
	}

	out, err := reference.Create(app.Ctx(), tabID)
	if err != nil {
		return err
	}
	fmt.Printf("reference window %d at %s\n", out.WindowID, formatRect(out.Rect))
	return nil
}

func runRefClose(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid window id %q", args[0])
	}

	reference, err := app.Reference()
	if err != nil {
		return err
	}

	if err := reference.Close(app.Ctx(), entity.WindowID(id)); err != nil {
		return err
	}
	fmt.Printf("closed reference window %d\n", id)
	return nil
}

func runRefCloseAll(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	reference, err := app.Reference()
	if err != nil {
		return err
	}

	closed := reference.CloseAll(app.Ctx())
	fmt.Printf("closed %d reference window(s)\n", closed)
	return nil
}

func runRefList(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	reference, err := app.Reference()
	if err != nil {
		return err
	}

	refs := reference.List()
	if len(refs) == 0 {
		fmt.Println("no reference windows")
		return nil
	}
	for _, ref := range refs {
		fmt.Printf("window %d  tab %d  %s\n", ref.WindowID, ref.TabID, formatRect(ref.Rect))
	}
	return nil
}
