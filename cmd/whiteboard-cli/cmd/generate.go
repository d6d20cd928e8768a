package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"whiteboard/internal/application/commands"
	"whiteboard/internal/application/generator"
)

var generateReset bool

var generateCmd = &cobra.Command{
	Use:   "generate <count>",
	Short: "Generate a chain of nodes in a grid",
	Long: `Generate count nodes linked in a chain, laid out row by row. Counts
accept presets such as 1k, 5k or 10k. Ctrl+C stops after the current chunk
and keeps what was generated.

Examples:
  whiteboard-cli generate 5k --reset`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := generator.ParseCount(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg := ws.Config.Generator
		genCmd := commands.NewGenerateCommand(GetBoard(), count,
			generator.WithChunkSize(cfg.ChunkSize),
			generator.WithCols(cfg.Cols),
			generator.WithMaxCount(cfg.MaxCount),
			generator.WithLogger(GetLogger().WithPrefix("generator")),
			generator.WithHooks(ws.Metrics),
		)
		genCmd.Reset = generateReset
		result, err := genCmd.Execute(ctx)
		if err != nil && !(result != nil && errors.Is(err, context.Canceled)) {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateReset, "reset", false, "clear the board first")
	rootCmd.AddCommand(generateCmd)
}
