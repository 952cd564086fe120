package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var meterGlyphs = []rune(" ▁▂▃▄▅▆▇█")

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a clip from the microphone",
		Long: `Record a clip from the configured input device.

A level meter is drawn while recording. Press Enter to stop and save
the clip, or Ctrl-C to discard it. With --duration the recording stops
on its own.

Example:
  jamboard record
  jamboard record --duration 15s`,
		Args: cobra.NoArgs,
		RunE: runRecord,
	}
	cmd.Flags().Duration("duration", 0, "stop after this long")
	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetDuration("duration")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		if err := a.board.StartRecording(ctx); err != nil {
			return err
		}

		stop := waitForEnter(cmd.InOrStdin(), limit > 0)
		var deadline <-chan time.Time
		if limit > 0 {
			timer := time.NewTimer(limit)
			defer timer.Stop()
			deadline = timer.C
		}

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		errOut := cmd.ErrOrStderr()
	loop:
		for {
			select {
			case <-ctx.Done():
				a.board.CancelRecording()
				fmt.Fprintln(errOut, "\nRecording discarded")
				return ctx.Err()
			case <-stop:
				break loop
			case <-deadline:
				break loop
			case <-ticker.C:
				snap := a.board.RecorderStatus()
				fmt.Fprintf(errOut, "\r● %s %s", formatSeconds(snap.Seconds), meter(snap.Levels))
			}
		}
		fmt.Fprintln(errOut)

		clip, err := a.board.StopRecording(ctx)
		if err := persistWarning(cmd, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %q (%s)\n", clip.ID, clip.Title, formatSeconds(clip.Duration))
		return nil
	})
}

// waitForEnter closes the returned channel when a line is read. End of
// input counts as Enter unless a duration will end the recording.
func waitForEnter(in io.Reader, timed bool) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		_, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && timed {
			return
		}
		close(done)
	}()
	return done
}

// meter draws one glyph per spectrum bar, levels in [0,100]
func meter(levels []float64) string {
	var b strings.Builder
	top := len(meterGlyphs) - 1
	for _, l := range levels {
		i := int(l/100*float64(top) + 0.5)
		if i < 0 {
			i = 0
		}
		if i > top {
			i = top
		}
		b.WriteRune(meterGlyphs[i])
	}
	return b.String()
}
