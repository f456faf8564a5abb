package builtins

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pjsh-lang/pjsh/core/interp"
)

// Sleep pauses for a number of seconds, or for a duration with an explicit
// unit suffix such as "500ms".
func Sleep(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "sleep DURATION",
		Short: "Pause for a duration, in seconds by default.",
	}

	return cmd.Run("sleep", stdio, args, func(args []string) int {
		if len(args) != 1 {
			fmt.Fprintln(stdio.Err, "sleep: expected exactly one duration")
			return 1
		}
		duration, err := parseDuration(args[0])
		if err != nil {
			fmt.Fprintf(stdio.Err, "sleep: invalid duration %q\n", args[0])
			return 1
		}
		time.Sleep(duration)
		return 0
	})
}

func parseDuration(arg string) (time.Duration, error) {
	if seconds, err := strconv.ParseFloat(arg, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	return time.ParseDuration(arg)
}

func init() {
	register("sleep", Sleep)
}
