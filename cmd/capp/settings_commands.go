package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cappuccino/internal/ipc"
)

func newThemeCommand(ctx *commandContext) *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the UI theme",
	}

	themeCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ThemeGet()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Appearance)
				return nil
			})
		},
	})

	themeCmd.AddCommand(&cobra.Command{
		Use:   "set <light|dark>",
		Short: "Change the theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ThemeSave(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", resp.Appearance)
				return nil
			})
		},
	})

	return themeCmd
}

func newLangCommand(ctx *commandContext) *cobra.Command {
	langCmd := &cobra.Command{
		Use:   "lang",
		Short: "Show or change the UI language",
	}

	langCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current language",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SettingsGet()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Lang)
				return nil
			})
		},
	})

	langCmd.AddCommand(&cobra.Command{
		Use:   "set <code>",
		Short: "Change the language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := strings.TrimSpace(args[0])
			if lang == "" {
				return fmt.Errorf("language code is required")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SettingsSave(ipc.SettingsSaveRequest{Lang: &lang})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Language set to %s\n", resp.Lang)
				return nil
			})
		},
	})

	return langCmd
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestNotification()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.Sent {
					fmt.Fprintln(stdout, resp.Message)
				} else {
					fmt.Fprintf(stdout, "Notification not sent: %s\n", resp.Message)
				}
				return nil
			})
		},
	}
}
