package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type capturePayload struct {
	Kind      string `json:"kind"`
	Payload   string `json:"payload"`
	PageURL   string `json:"page_url"`
	PageTitle string `json:"page_title"`
}

type captureReply struct {
	Text    string `json:"text"`
	IsError bool   `json:"isError"`
	Error   string `json:"error"`
}

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Save content through the running daemon",
	}

	var pageURL, pageTitle string
	registerPageFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&pageURL, "url", "", "Source page URL")
		cmd.Flags().StringVar(&pageTitle, "title", "", "Source page title")
		_ = cmd.MarkFlagRequired("url")
	}

	textCmd := &cobra.Command{
		Use:   "text <selection>",
		Short: "Save a text selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitCapture(ctx, cmd, capturePayload{
				Kind:      "selection",
				Payload:   args[0],
				PageURL:   pageURL,
				PageTitle: pageTitle,
			})
		},
	}
	registerPageFlags(textCmd)

	imageCmd := &cobra.Command{
		Use:   "image <image-url>",
		Short: "Save an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitCapture(ctx, cmd, capturePayload{
				Kind:      "image",
				Payload:   args[0],
				PageURL:   pageURL,
				PageTitle: pageTitle,
			})
		},
	}
	registerPageFlags(imageCmd)

	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Save the video on the given page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitCapture(ctx, cmd, capturePayload{
				Kind:      "video",
				PageURL:   pageURL,
				PageTitle: pageTitle,
			})
		},
	}
	registerPageFlags(videoCmd)

	captureCmd.AddCommand(textCmd, imageCmd, videoCmd)
	return captureCmd
}

func submitCapture(ctx *commandContext, cmd *cobra.Command, payload capturePayload) error {
	cfg := ctx.configValue()
	if cfg == nil {
		return fmt.Errorf("configuration not available")
	}
	endpoint := fmt.Sprintf("http://%s/api/capture", cfg.Paths.APIBind)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode capture request: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submit capture: %w (is the daemon running?)", err)
	}
	defer resp.Body.Close()

	var reply captureReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decode capture response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(reply.Error)
		if detail == "" {
			detail = resp.Status
		}
		return fmt.Errorf("capture rejected: %s", detail)
	}
	if reply.IsError {
		return fmt.Errorf("%s", reply.Text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return nil
}
