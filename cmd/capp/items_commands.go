package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cappuccino/internal/ipc"
)

type filterFlags struct {
	category string
	search   string
	domain   string
	from     string
	to       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "Filter by category (all, text, image, video)")
	cmd.Flags().StringVar(&f.search, "search", "", "Case-insensitive substring search")
	cmd.Flags().StringVar(&f.domain, "domain", "", "Filter by source domain")
	cmd.Flags().StringVar(&f.from, "from", "", "Start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "End date, inclusive (YYYY-MM-DD)")
}

func (f *filterFlags) toFilter() ipc.Filter {
	return ipc.Filter{
		Category: f.category,
		Search:   f.search,
		Domain:   f.domain,
		From:     f.from,
		To:       f.to,
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var filters filterFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved items, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemsList(ipc.ItemsListRequest{
					Filter: filters.toFilter(),
					Limit:  limit,
				})
				if err != nil {
					return err
				}
				printItems(cmd, resp)
				return nil
			})
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of items to show")
	return cmd
}

func newRecentCommand(ctx *commandContext) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent saved items",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := 0
			if cfg := ctx.configValue(); cfg != nil {
				limit = cfg.UI.RecentLimit
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemsList(ipc.ItemsListRequest{
					Filter: filters.toFilter(),
					Limit:  limit,
				})
				if err != nil {
					return err
				}
				printItems(cmd, resp)
				if resp.Total > len(resp.Items) {
					fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d items\n", len(resp.Items), resp.Total)
				}
				return nil
			})
		},
	}
	filters.register(cmd)
	return cmd
}

func printItems(cmd *cobra.Command, resp *ipc.ItemsListResponse) {
	stdout := cmd.OutOrStdout()
	if len(resp.Items) == 0 {
		fmt.Fprintln(stdout, "No saved items")
		return
	}

	now := time.Now()
	rows := make([][]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.Kind,
			truncate(item.Content, 60),
			truncate(item.PageTitle, 30),
			siteName(item.URL),
			relativeTime(parseItemTime(item.Timestamp), now),
		})
	}
	table := renderTable(
		[]string{"ID", "Type", "Content", "Page", "Site", "Saved"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
	fmt.Fprintln(stdout, table)
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete saved items by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				for _, id := range ids {
					resp, err := client.ItemsDelete(id)
					if err != nil {
						return err
					}
					if resp.Deleted {
						fmt.Fprintf(stdout, "Item %d deleted\n", id)
					} else {
						fmt.Fprintf(stdout, "Item %d not found\n", id)
					}
				}
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved item",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			if !force && !confirm(cmd, "Delete ALL saved items? This cannot be undone [y/N]: ") {
				fmt.Fprintln(stdout, "Aborted")
				return nil
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemsClear()
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Removed %d items\n", resp.Removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var filters filterFlags
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved items to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ExportCSV(filters.toFilter())
				if err != nil {
					return err
				}
				target := strings.TrimSpace(outputPath)
				if target == "" || target == "-" {
					fmt.Fprint(stdout, resp.CSV)
					return nil
				}
				if err := os.WriteFile(target, []byte(resp.CSV), 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				fmt.Fprintf(stdout, "Exported %d items to %s\n", resp.ItemCount, target)
				return nil
			})
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default: stdout)")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show saved item statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				stats, err := client.Stats()
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Text", strconv.Itoa(stats.Text)},
					{"Image", strconv.Itoa(stats.Image)},
					{"Video", strconv.Itoa(stats.Video)},
					{"Documents", strconv.Itoa(stats.Documents)},
					{"Total", strconv.Itoa(stats.Total)},
				}
				table := renderTable([]string{"Kind", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newDomainsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List source domains with saved items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Domains()
				if err != nil {
					return err
				}
				if len(resp.Domains) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved items")
					return nil
				}
				for _, domain := range resp.Domains {
					fmt.Fprintln(cmd.OutOrStdout(), domain)
				}
				return nil
			})
		},
	}
}

func parsePositiveIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid item id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
