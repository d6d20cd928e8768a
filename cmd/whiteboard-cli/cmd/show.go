package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"whiteboard/internal/adapters/dot"
	"whiteboard/internal/adapters/opener"
	"whiteboard/internal/application/commands"
	"whiteboard/internal/persistence"
	"whiteboard/internal/ports"
)

var (
	showEdges bool

	exportFormat    string
	exportOutput    string
	exportClipboard bool
	exportOpen      bool

	uiShowResizers bool
	uiAllowStretch bool
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List the nodes of the board",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := GetBoard().Snapshot()
		if len(snap.Nodes) == 0 {
			fmt.Println("The board is empty")
			return nil
		}
		abs := snap.AbsolutePositions()

		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers("ID", "KIND", "LABEL", "X", "Y", "SIZE", "PARENT")
		for _, n := range snap.Nodes {
			p := abs[n.ID]
			t.Row(n.ID, string(n.Kind()), n.Label(),
				strconv.FormatFloat(p.X, 'f', -1, 64),
				strconv.FormatFloat(p.Y, 'f', -1, 64),
				fmt.Sprintf("%gx%g", n.Size.Width, n.Size.Height),
				n.ParentID,
			)
		}
		fmt.Println(t.Render())

		if showEdges && len(snap.Edges) > 0 {
			et := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("EDGE", "FROM", "TO", "ROUTING", "LABEL")
			for _, e := range snap.Edges {
				et.Row(e.ID, e.SourceID, e.TargetID, string(e.Style.Routing), e.Style.Label)
			}
			fmt.Println(et.Render())
		}
		fmt.Printf("%d node(s), %d edge(s)\n", len(snap.Nodes), len(snap.Edges))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the board as JSON, DOT or SVG",
	Long: `Export the board. Writes to stdout unless -o or --clipboard is given.

Examples:
  whiteboard-cli export --format dot -o board.dot
  whiteboard-cli export --clipboard
  whiteboard-cli export --format svg --open`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var exporter ports.Exporter
		for _, e := range []ports.Exporter{persistence.JSONExporter{}, dot.DOTExporter{}, dot.SVGExporter{}} {
			if e.Format() == exportFormat {
				exporter = e
			}
		}
		if exporter == nil {
			return fmt.Errorf("unknown export format %q (json, dot, svg)", exportFormat)
		}

		var buf bytes.Buffer
		if err := exporter.Export(cmd.Context(), GetBoard().Snapshot(), &buf); err != nil {
			return err
		}

		if exportOpen && exportOutput == "" {
			f, err := os.CreateTemp("", "whiteboard-*."+exportFormat)
			if err != nil {
				return err
			}
			f.Close()
			exportOutput = f.Name()
		}

		switch {
		case exportClipboard:
			if err := clipboard.WriteAll(buf.String()); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Copied %d bytes of %s\n", buf.Len(), exportFormat)
		case exportOutput != "":
			if err := os.WriteFile(exportOutput, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOutput)
			if exportOpen {
				return opener.NewViewer().Open(exportOutput)
			}
		default:
			_, err := os.Stdout.Write(buf.Bytes())
			return err
		}
		return nil
	},
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Show or change the styles of new shapes and edges",
	Long: `Without flags, print the current defaults. With flags, change them.
Existing nodes and edges keep their style.

Examples:
  whiteboard-cli defaults --shape circle --fill "#bbf7d0"
  whiteboard-cli defaults --routing step --arrow`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := shapePatchFromFlags(cmd)
		if err != nil {
			return err
		}
		edge, err := edgePatchFromFlags(cmd)
		if err != nil {
			return err
		}

		defaultsCmd := commands.NewSetDefaultsCommand(GetBoard())
		defaultsCmd.Shape, defaultsCmd.Edge = shape, edge
		if cmd.Flags().Changed("show-resizers") {
			defaultsCmd.UI.ShowResizeHandles = &uiShowResizers
		}
		if cmd.Flags().Changed("allow-stretch") {
			defaultsCmd.UI.AllowNonUniformResize = &uiAllowStretch
		}
		result, err := defaultsCmd.Execute(cmd.Context())
		if err != nil {
			return err
		}

		s, e, ui := result.Shape, result.Edge, result.UI
		fmt.Printf("shape   %s fill %s stroke %s width %g\n", s.Shape, s.Fill, s.Stroke, s.StrokeWidth)
		fmt.Printf("edge    %s dashed=%t arrow=%t label=%q\n", e.Routing, e.Dashed, e.Arrowed, e.Label)
		fmt.Printf("ui      resizers=%t stretch=%t\n", ui.ShowResizeHandles, ui.AllowNonUniformResize)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVarP(&showEdges, "edges", "e", false, "also list edges")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json, dot or svg")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "copy to the system clipboard")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "open the exported file in the default viewer")

	addShapeFlags(defaultsCmd)
	addEdgeFlags(defaultsCmd)
	defaultsCmd.Flags().BoolVar(&uiShowResizers, "show-resizers", true, "show resize handles")
	defaultsCmd.Flags().BoolVar(&uiAllowStretch, "allow-stretch", false, "allow non-uniform resize")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(defaultsCmd)
}
