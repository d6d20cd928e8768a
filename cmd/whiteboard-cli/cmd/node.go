package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"whiteboard/internal/adapters/opener"
	"whiteboard/internal/application"
	"whiteboard/internal/application/commands"
	"whiteboard/internal/domain"
)

var (
	addX, addY float64
	addText    string

	moveDX, moveDY float64
	moveTo         []float64

	resizeWidth, resizeHeight float64

	styleShape       string
	styleFill        string
	styleStroke      string
	styleStrokeWidth float64
)

var addCmd = &cobra.Command{
	Use:   "add <sticky|shape|text|group>",
	Short: "Add a node",
	Long: `Add a node at a canvas position. New shapes take the current shape
defaults.

Examples:
  whiteboard-cli add sticky --x 100 --y 40 --text "Launch plan"
  whiteboard-cli add shape`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addCmd := commands.NewAddNodeCommand(GetBoard(), args[0], addX, addY)
		addCmd.Text = addText
		result, err := addCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <node-id>...",
	Short: "Move nodes",
	Long: `Translate nodes by an offset, or place them with --to. Positions of
grouped nodes are relative to their group.

Examples:
  whiteboard-cli move 3 4 --dx 40
  whiteboard-cli move 7 --to 0,120`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		moveCmd := commands.NewMoveCommand(GetBoard(), args, moveDX, moveDY)
		if cmd.Flags().Changed("to") {
			if len(moveTo) != 2 {
				return fmt.Errorf("--to takes x,y")
			}
			to := domain.Pt(moveTo[0], moveTo[1])
			moveCmd.To = &to
		}
		result, err := moveCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize <node-id>...",
	Short: "Resize nodes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewResizeCommand(GetBoard(), args, resizeWidth, resizeHeight).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var textCmd = &cobra.Command{
	Use:   "text <node-id> [text]",
	Short: "Replace the text of a sticky or text node",
	Long: `Replace the text of a sticky or text node. Without a text argument the
current text opens in $EDITOR.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 2 {
			text = args[1]
		} else {
			n, ok := GetBoard().Node(args[0])
			if !ok {
				return fmt.Errorf("node %s: %w", args[0], application.ErrNotFound)
			}
			current, ok := n.Text()
			if !ok {
				return fmt.Errorf("%s node %s holds no text", n.Kind(), n.ID)
			}
			edited, err := opener.NewEditor().EditText(current)
			if err != nil {
				return err
			}
			if edited == current {
				fmt.Println("Text unchanged")
				return nil
			}
			text = edited
		}

		result, err := commands.NewEditTextCommand(GetBoard(), args[0], text).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var styleCmd = &cobra.Command{
	Use:   "style <node-id>...",
	Short: "Restyle shape nodes",
	Long: `Restyle existing shapes. Only the flags given change.

Examples:
  whiteboard-cli style 4 5 --shape diamond --fill "#fde68a"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := shapePatchFromFlags(cmd)
		if err != nil {
			return err
		}
		result, err := commands.NewStyleShapesCommand(GetBoard(), args, patch).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

// shapePatchFromFlags reads the shape style flags the user set
func shapePatchFromFlags(cmd *cobra.Command) (application.ShapeStylePatch, error) {
	var p application.ShapeStylePatch
	flags := cmd.Flags()
	if flags.Changed("shape") {
		kind, err := domain.ParseShapeKind(styleShape)
		if err != nil {
			return p, err
		}
		p.Shape = &kind
	}
	if flags.Changed("fill") {
		p.Fill = &styleFill
	}
	if flags.Changed("stroke") {
		p.Stroke = &styleStroke
	}
	if flags.Changed("stroke-width") {
		p.StrokeWidth = &styleStrokeWidth
	}
	return p, nil
}

func addShapeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&styleShape, "shape", "", "shape kind: rectangle, circle or diamond")
	cmd.Flags().StringVar(&styleFill, "fill", "", "fill color (#rrggbb)")
	cmd.Flags().StringVar(&styleStroke, "stroke", "", "stroke color (#rrggbb)")
	cmd.Flags().Float64Var(&styleStrokeWidth, "stroke-width", 0, "stroke width (1-8)")
}

func init() {
	addCmd.Flags().Float64Var(&addX, "x", 0, "canvas x")
	addCmd.Flags().Float64Var(&addY, "y", 0, "canvas y")
	addCmd.Flags().StringVarP(&addText, "text", "t", "", "text for sticky and text nodes")

	moveCmd.Flags().Float64Var(&moveDX, "dx", 0, "horizontal offset")
	moveCmd.Flags().Float64Var(&moveDY, "dy", 0, "vertical offset")
	moveCmd.Flags().Float64SliceVar(&moveTo, "to", nil, "target position as x,y")

	resizeCmd.Flags().Float64Var(&resizeWidth, "width", 0, "new width")
	resizeCmd.Flags().Float64Var(&resizeHeight, "height", 0, "new height")
	_ = resizeCmd.MarkFlagRequired("width")
	_ = resizeCmd.MarkFlagRequired("height")

	addShapeFlags(styleCmd)

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(resizeCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(styleCmd)
}
