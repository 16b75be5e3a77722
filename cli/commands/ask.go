package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumen-labs/lumen-go/content"
	"github.com/lumen-labs/lumen-go/core"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

func (a *App) newAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Generate a text response",
		Long: `Send a question to the platform and print the generated response.

Examples:
  lumen ask "What is a goroutine?"
  lumen ask "Summarize this" --stream
  lumen ask "List three facts" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd.Context(), args[0])
		},
	}

	cmd.Flags().Float64Var(&a.askRandomness, "randomness", -1, "sampling randomness in [0,1] (-1 = use default)")
	cmd.Flags().StringVar(&a.askFormat, "format", "", "response format (text or json)")
	cmd.Flags().BoolVar(&a.askStream, "stream", false, "stream the response as it is generated")

	return cmd
}

func (a *App) runAsk(ctx context.Context, question string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	req := &content.GenerateRequest{
		Question:       question,
		Model:          content.Model(a.model),
		ResponseFormat: a.askFormat,
	}
	if a.askRandomness >= 0 {
		r := a.askRandomness
		req.Randomness = &r
	}

	svc := content.New(client)

	if a.askStream {
		return a.runAskStream(ctx, svc, req)
	}

	resp, err := svc.Generate(ctx, req)
	if err != nil {
		return a.handleAPIError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(map[string]any{
			"content":         resp.Content,
			"conversation_id": resp.ConversationID,
		})
	}

	fmt.Fprintln(a.stdout, resp.Content)
	return nil
}

func (a *App) runAskStream(ctx context.Context, svc *content.Service, req *content.GenerateRequest) error {
	stream, err := svc.Stream(ctx, req)
	if err != nil {
		return a.handleAPIError(err)
	}

	if a.jsonOutput {
		// Accumulate for JSON output
		text, err := core.DrainText(ctx, stream)
		if err != nil {
			return a.handleAPIError(err)
		}
		return a.outputJSON(map[string]any{"content": text})
	}

	for chunk := range stream.Ch {
		fmt.Fprint(a.stdout, chunk.Text)
	}
	fmt.Fprintln(a.stdout)

	select {
	case err := <-stream.Err:
		if err != nil {
			return a.handleAPIError(err)
		}
	default:
	}

	return nil
}

// handleAPIError prints a request failure and maps it to an exit code.
func (a *App) handleAPIError(err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		if a.jsonOutput {
			a.outputErrorJSON(apiErr.Code, apiErr.Message, apiErr.RequestID)
		} else {
			fmt.Fprintf(a.stderr, "Error: %s\n", apiErr.Message)
			if apiErr.RequestID != "" {
				fmt.Fprintf(a.stderr, "  Request ID: %s\n", apiErr.RequestID)
			}
		}

		if errors.Is(err, core.ErrNetwork) {
			return exitWithCode(ExitNetwork, err)
		}
		return exitWithCode(ExitAPI, err)
	}

	if a.jsonOutput {
		a.outputErrorJSON("error", err.Error(), "")
	} else {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return exitWithCode(ExitValidation, err)
}

func (a *App) outputJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) outputErrorJSON(code, message, requestID string) {
	output := map[string]any{
		"error": map[string]any{
			"type":    code,
			"message": message,
		},
	}
	if requestID != "" {
		output["error"].(map[string]any)["request_id"] = requestID
	}

	enc := json.NewEncoder(a.stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
