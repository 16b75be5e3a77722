package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lumen-labs/lumen-go/core"
	"github.com/lumen-labs/lumen-go/moderation"
)

func (a *App) newModerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderate [text]",
		Short: "Moderate text or an image",
		Long: `Score text or an image for policy-violating content.

Examples:
  lumen moderate "some user submitted text"
  lumen moderate --image ./upload.png
  lumen moderate --image https://example.com/photo.jpg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) > 0 {
				text = args[0]
			}
			return a.runModerate(cmd.Context(), text)
		},
	}

	cmd.Flags().StringVar(&a.moderateImage, "image", "", "image to moderate (file path, URL, or data URI)")

	return cmd
}

func (a *App) runModerate(ctx context.Context, text string) error {
	if text == "" && a.moderateImage == "" {
		return exitWithCode(ExitValidation, fmt.Errorf("nothing to moderate: pass text or --image"))
	}
	if text != "" && a.moderateImage != "" {
		return exitWithCode(ExitValidation, fmt.Errorf("pass either text or --image, not both"))
	}

	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	svc := moderation.New(client)

	if a.moderateImage != "" {
		resp, err := svc.Image(ctx, &moderation.ImageRequest{
			Image: core.InputFromRef(a.moderateImage),
		})
		if err != nil {
			return a.handleAPIError(err)
		}

		if a.jsonOutput {
			return a.outputJSON(resp)
		}
		a.printVerdict(resp.Flagged)
		for _, label := range resp.Labels {
			fmt.Fprintf(a.stdout, "  %s: %.2f\n", label.Name, label.Confidence)
		}
		return nil
	}

	resp, err := svc.Text(ctx, &moderation.TextRequest{Content: text})
	if err != nil {
		return a.handleAPIError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(resp)
	}
	a.printVerdict(resp.Flagged)

	categories := make([]string, 0, len(resp.CategoryScores))
	for name := range resp.CategoryScores {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		fmt.Fprintf(a.stdout, "  %s: %.2f\n", name, resp.CategoryScores[name])
	}
	return nil
}

func (a *App) printVerdict(flagged bool) {
	if flagged {
		fmt.Fprintln(a.stdout, "flagged")
	} else {
		fmt.Fprintln(a.stdout, "ok")
	}
}
