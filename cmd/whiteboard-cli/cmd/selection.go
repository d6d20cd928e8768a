package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"whiteboard/internal/application/commands"
)

var resetYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <node-id>...",
	Short: "Delete nodes and their edges",
	Long: `Delete nodes and every edge touching them. Children of a deleted group
are kept at their canvas position or deleted with it, depending on the
board's orphan policy.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteCommand(GetBoard(), args...).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var groupCmd = &cobra.Command{
	Use:   "group <node-id>...",
	Short: "Wrap nodes in a new frame",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewGroupCommand(GetBoard(), args...).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var ungroupCmd = &cobra.Command{
	Use:   "ungroup <group-id>",
	Short: "Remove a frame and keep its children",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewUngroupCommand(GetBoard(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every node and edge",
	RunE: func(cmd *cobra.Command, args []string) error {
		board := GetBoard()
		if !resetYes {
			fmt.Printf("Remove %d node(s) and %d edge(s)? [y/N] ", board.NodeCount(), board.EdgeCount())
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Cancelled")
				return nil
			}
		}
		result, err := commands.NewResetCommand(board).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip confirmation")

	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(ungroupCmd)
	rootCmd.AddCommand(resetCmd)
}
