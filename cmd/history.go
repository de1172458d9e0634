package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/zantaku/Zantaku-sub000/color"
	"github.com/zantaku/Zantaku-sub000/history"
	"github.com/zantaku/Zantaku-sub000/icon"
	"github.com/zantaku/Zantaku-sub000/style"
	"github.com/zantaku/Zantaku-sub000/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyRemoveCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Print the records as JSON")
	historyCmd.Flags().IntP("limit", "n", 0, "Show at most this many records, newest first")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List watch progress, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		records := lo.Values(saved)
		sort.Slice(records, func(i, j int) bool {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		})

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && limit < len(records) {
			records = records[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No history yet"))
			return
		}

		for _, record := range records {
			position := util.Clock(record.Position)
			if record.Duration > 0 {
				position += " / " + util.Clock(record.Duration)
			}

			cmd.Printf("%s %s\n  %s  %s\n",
				style.Fg(color.Mauve)(record.MediaID),
				style.Bold(record.String()),
				style.Fg(color.Yellow)(position),
				style.Faint(record.UpdatedAt.Format("2006-01-02 15:04")),
			)
		}
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <media-id> <episode>",
	Short: "Forget the progress of one episode",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		episode, err := strconv.Atoi(args[1])
		if err != nil {
			handleErr(fmt.Errorf("invalid episode %q: %w", args[1], err))
		}

		found, err := history.Lookup(args[0], episode)
		handleErr(err)

		record, ok := found.Get()
		if !ok {
			handleErr(fmt.Errorf("no history for %s episode %d", args[0], episode))
		}

		handleErr(history.Remove(record))
		cmd.Printf("%s removed %s\n", icon.Get(icon.Success), record)
	},
}
