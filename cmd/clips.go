package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/clips"
	"github.com/killallgit/jamboard-api/internal/services/confirm"
	"github.com/killallgit/jamboard-api/internal/services/store"
	"github.com/spf13/cobra"
)

// persistWarning prints a storage warning and swallows it. Other errors are
// returned unchanged.
func persistWarning(cmd *cobra.Command, err error) error {
	if w, ok := store.AsWarning(err); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: saved for this session only: %v\n", w)
		return nil
	}
	return err
}

// confirmerFor asks on the terminal unless --yes was given
func confirmerFor(cmd *cobra.Command) confirm.Confirmer {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return confirm.Static(true)
	}
	return confirm.Terminal{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
}

func newClipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clips",
		Short: "Browse and manage clips on the board",
	}
	cmd.AddCommand(
		newClipsListCmd(),
		newClipsShowCmd(),
		newClipsUploadCmd(),
		newClipsEditCmd(),
		newClipsDeleteCmd(),
		newClipsCommentCmd(),
		newClipsExportCmd(),
		newClipsAnalyzeCmd(),
	)
	return cmd
}

func newClipsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clips, newest first",
		Long: `List the clips on the board.

--query matches title, tags, author name and category. --tab is one of
` + strings.Join(clips.Tabs(), ", ") + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			tab, _ := cmd.Flags().GetString("tab")
			asJSON, _ := cmd.Flags().GetBool("json")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				list := a.board.ListClips(query, tab)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(list)
				}
				printClipTable(cmd, list)
				return nil
			})
		},
	}
	cmd.Flags().StringP("query", "q", "", "search text")
	cmd.Flags().String("tab", clips.TabAll, "category tab")
	cmd.Flags().Bool("json", false, "print clips as JSON")
	return cmd
}

func newClipsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <clip-id>",
		Short: "Show a clip with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				clip, err := a.board.GetClip(args[0])
				if err != nil {
					return err
				}
				printClip(cmd, clip)
				return nil
			})
		},
	}
}

func newClipsUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Add an audio file as a new clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, _ := cmd.Flags().GetDuration("duration")
			if duration < 0 {
				return fmt.Errorf("duration must not be negative")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			mimeType := mime.TypeByExtension(filepath.Ext(args[0]))
			if i := strings.IndexByte(mimeType, ';'); i >= 0 {
				mimeType = mimeType[:i]
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				clip, err := a.board.CreateClip(ctx, data, mimeType, duration.Seconds())
				if err := persistWarning(cmd, err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q\n", clip.ID, clip.Title)
				return nil
			})
		},
	}
	cmd.Flags().Duration("duration", 0, "clip length, e.g. 12.5s (read from the audio when omitted)")
	return cmd
}

func newClipsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <clip-id>",
		Short: "Change the title, category or tags of your clip",
		Long: `Change the title, category or tags of a clip you own.

Tags are comma separated and replace the current list.

Example:
  jamboard clips edit c1 --title "Night Riff" --category Riffs --tags "lofi, warm"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.ClipPatch
			if cmd.Flags().Changed("title") {
				title, _ := cmd.Flags().GetString("title")
				patch.Title = &title
			}
			if cmd.Flags().Changed("category") {
				raw, _ := cmd.Flags().GetString("category")
				category := models.Category(raw)
				patch.Category = &category
			}
			if cmd.Flags().Changed("tags") {
				raw, _ := cmd.Flags().GetString("tags")
				tags := models.ParseTags(raw)
				patch.Tags = &tags
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				clip, err := a.board.UpdateClip(ctx, args[0], patch)
				if err := persistWarning(cmd, err); err != nil {
					return err
				}
				printClip(cmd, clip)
				return nil
			})
		},
	}
	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("category", "", "one of Riffs, Vocals, Drums, Synths, Other")
	cmd.Flags().String("tags", "", "comma separated tags")
	return cmd
}

func newClipsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <clip-id> [comment-id]",
		Short: "Delete your clip, or a comment on it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				c := confirmerFor(cmd)
				if len(args) == 2 {
					if err := persistWarning(cmd, a.board.DeleteComment(ctx, args[0], args[1], c)); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Comment deleted")
					return nil
				}
				if err := persistWarning(cmd, a.board.DeleteClip(ctx, args[0], c)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Clip deleted")
				return nil
			})
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newClipsCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <clip-id> <text>",
		Short: "Leave a comment on a clip",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				comment, err := a.board.AddComment(ctx, args[0], text)
				if err := persistWarning(cmd, err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Comment %s added\n", comment.ID)
				return nil
			})
		},
	}
}

func newClipsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <clip-id>",
		Short: "Save a clip's audio to a file",
		Long: `Save a clip's audio to a file named after its title, or to --output.

Demo clips that point at remote audio cannot be exported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				name, payload, err := a.board.ExportClip(ctx, args[0])
				if err != nil {
					return err
				}
				if output == "" {
					output = name
				}
				if err := os.WriteFile(output, payload.Data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", output, len(payload.Data))
				return nil
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "output path")
	return cmd
}

func newClipsAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <clip-id>",
		Short: "Suggest tags and a description for your clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, _ := cmd.Flags().GetDuration("timeout")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				_, err := a.board.Analyze(ctx, args[0])
				if err := persistWarning(cmd, err); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing...")

				waitCtx := ctx
				if timeout > 0 {
					var cancel context.CancelFunc
					waitCtx, cancel = context.WithTimeout(ctx, timeout)
					defer cancel()
				}
				if err := a.board.WaitAnalysis(waitCtx, args[0]); err != nil {
					return err
				}

				clip, err := a.board.GetClip(args[0])
				if err != nil {
					return err
				}
				printClip(cmd, clip)
				return nil
			})
		},
	}
	cmd.Flags().Duration("timeout", 2*time.Minute, "how long to wait for the result")
	return cmd
}

func printClipTable(cmd *cobra.Command, list []models.Clip) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tTAGS\tLENGTH\tAUTHOR\tCOMMENTS")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			c.ID, c.Title, c.Category, strings.Join(c.Tags, ","), formatSeconds(c.Duration), c.User.Name, len(c.Comments))
	}
	_ = w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "%d clip(s)\n", len(list))
}

func printClip(cmd *cobra.Command, c models.Clip) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", c.ID, c.Title)
	fmt.Fprintf(out, "  by:       %s\n", c.User.Name)
	fmt.Fprintf(out, "  created:  %s\n", time.UnixMilli(c.CreatedAt).Format(time.RFC3339))
	fmt.Fprintf(out, "  length:   %s\n", formatSeconds(c.Duration))
	if c.Category != "" {
		fmt.Fprintf(out, "  category: %s\n", c.Category)
	}
	fmt.Fprintf(out, "  tags:     %s\n", strings.Join(c.Tags, ", "))
	if c.IsAnalyzing {
		fmt.Fprintln(out, "  analysis: in progress")
	} else if c.AIAnalysis != "" {
		fmt.Fprintf(out, "  analysis: %s\n", c.AIAnalysis)
	}
	for _, cm := range c.Comments {
		fmt.Fprintf(out, "  [%s] %s: %s\n", cm.ID, cm.UserName, cm.Text)
	}
}

// formatSeconds renders a duration as m:ss
func formatSeconds(seconds float64) string {
	total := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
