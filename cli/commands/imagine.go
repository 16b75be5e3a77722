package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumen-labs/lumen-go/image"
)

func (a *App) newImagineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imagine <prompt>...",
		Short: "Generate an image from prompts",
		Long: `Generate an image from one or more text prompts.

Examples:
  lumen imagine "a lighthouse at dusk"
  lumen imagine "a red fox" "watercolor style" --orientation landscape`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImagine(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVar(&a.imagineOrient, "orientation", "", "image orientation (square, landscape, portrait)")
	cmd.Flags().StringVar(&a.imagineOutput, "output", "", "output type (url or blob)")

	return cmd
}

func (a *App) runImagine(ctx context.Context, prompts []string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	req := &image.GenerateRequest{
		Prompts:     prompts,
		Orientation: image.Orientation(a.imagineOrient),
		OutputType:  image.OutputType(a.imagineOutput),
	}

	resp, err := image.New(client).Generate(ctx, req)
	if err != nil {
		return a.handleAPIError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(map[string]any{
			"image":           resp.Image,
			"processing_time": resp.ProcessingTime,
		})
	}

	fmt.Fprintln(a.stdout, resp.Image)
	return nil
}
