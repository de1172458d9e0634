package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/zantaku/Zantaku-sub000/color"
	"github.com/zantaku/Zantaku-sub000/filesystem"
	"github.com/zantaku/Zantaku-sub000/style"
	"github.com/zantaku/Zantaku-sub000/subtitle"
)

func init() {
	rootCmd.AddCommand(subsCmd)
	subsCmd.AddCommand(subsParseCmd, subsDetectCmd)

	subsParseCmd.Flags().StringP("format", "f", "", "Input format (ass, vtt, srt). Detected when empty")
	lo.Must0(subsParseCmd.RegisterFlagCompletionFunc("format", completeFormats))

	subsParseCmd.Flags().StringP("output", "o", "srt", "Output format (srt, vtt, json)")
	lo.Must0(subsParseCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"srt", "vtt", "json"}, cobra.ShellCompDirectiveNoFileComp
	}))

	subsParseCmd.Flags().BoolP("strict", "s", false, "Fail on the first malformed cue instead of skipping it")
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		subtitle.FormatASS.String(),
		subtitle.FormatVTT.String(),
		subtitle.FormatSRT.String(),
	}, cobra.ShellCompDirectiveNoFileComp
}

var subsCmd = &cobra.Command{
	Use:   "subs",
	Short: "Inspect and convert subtitle files",
}

var subsParseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Normalize a subtitle file into a sorted cue list",
	Long: `Normalize an ASS, WebVTT or SubRip file into plain text cues.
Use "-" to read from standard input.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text, err := readSubtitle(args[0])
		handleErr(err)

		hint := subtitle.FormatUnknown
		if name := lo.Must(cmd.Flags().GetString("format")); name != "" {
			hint, err = subtitle.ParseFormat(name)
			handleErr(err)
		} else if args[0] != "-" {
			// the extension is only a hint, content sniffing decides when it is unknown
			hint, _ = subtitle.ParseFormat(filepath.Ext(args[0]))
		}

		result := subtitle.ParseDetailed(text, hint)
		if len(result.Skipped) > 0 {
			if lo.Must(cmd.Flags().GetBool("strict")) {
				handleErr(result.Skipped[0])
			}

			for _, skipped := range result.Skipped {
				_, _ = fmt.Fprintln(os.Stderr, style.Fg(color.Yellow)(skipped.Error()))
			}
		}

		out := cmd.OutOrStdout()
		switch output := lo.Must(cmd.Flags().GetString("output")); output {
		case "srt":
			handleErr(subtitle.WriteSRT(out, result.Cues))
		case "vtt":
			handleErr(subtitle.WriteVTT(out, result.Cues))
		case "json":
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(result))
		default:
			handleErr(fmt.Errorf("unknown output format %q", output))
		}
	},
}

var subsDetectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Print the detected format of a subtitle file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text, err := readSubtitle(args[0])
		handleErr(err)

		cmd.Println(subtitle.Detect(text))
	},
}

func readSubtitle(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
