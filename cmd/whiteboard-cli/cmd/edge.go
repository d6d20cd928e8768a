package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"whiteboard/internal/application"
	"whiteboard/internal/application/commands"
	"whiteboard/internal/domain"
)

var (
	edgeRouting string
	edgeDashed  bool
	edgeArrow   bool
	edgeLabel   string
	edgeNodes   []string
)

var connectCmd = &cobra.Command{
	Use:   "connect <source-id> <target-id>",
	Short: "Connect two nodes",
	Long: `Connect two nodes with an edge styled by the current edge defaults.
A node may be connected to itself.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewConnectCommand(GetBoard(), args[0], args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <edge-id>...",
	Short: "Remove edges",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDisconnectCommand(GetBoard(), args...).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var styleEdgesCmd = &cobra.Command{
	Use:   "style-edges [edge-id]...",
	Short: "Restyle edges",
	Long: `Restyle edges by id, or every edge touching the nodes given with --nodes.

Examples:
  whiteboard-cli style-edges e1-2 --routing step --dashed
  whiteboard-cli style-edges --nodes 4 --label "depends on"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := edgePatchFromFlags(cmd)
		if err != nil {
			return err
		}
		styleCmd := commands.NewStyleEdgesCommand(GetBoard(), args, patch)
		styleCmd.Nodes = edgeNodes
		result, err := styleCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

// edgePatchFromFlags reads the edge style flags the user set
func edgePatchFromFlags(cmd *cobra.Command) (application.EdgeStylePatch, error) {
	var p application.EdgeStylePatch
	flags := cmd.Flags()
	if flags.Changed("routing") {
		routing, err := domain.ParseRoutingType(edgeRouting)
		if err != nil {
			return p, err
		}
		p.Routing = &routing
	}
	if flags.Changed("dashed") {
		p.Dashed = &edgeDashed
	}
	if flags.Changed("arrow") {
		p.Arrowed = &edgeArrow
	}
	if flags.Changed("label") {
		p.Label = &edgeLabel
	}
	return p, nil
}

func addEdgeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&edgeRouting, "routing", "", "routing: straight, step or curved")
	cmd.Flags().BoolVar(&edgeDashed, "dashed", false, "dashed line")
	cmd.Flags().BoolVar(&edgeArrow, "arrow", false, "arrow head at the target")
	cmd.Flags().StringVar(&edgeLabel, "label", "", "edge label")
}

func init() {
	addEdgeFlags(styleEdgesCmd)
	styleEdgesCmd.Flags().StringSliceVar(&edgeNodes, "nodes", nil, "restyle edges touching these nodes")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(styleEdgesCmd)
}
