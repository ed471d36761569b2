package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cyclepanes/internal/core/action"
)

// ActionCompleter suggests command aliases and ids as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func ActionCompleter() cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		w := cmd.Root().Writer
		for _, name := range actionNames() {
			_, _ = fmt.Fprintln(w, name)
		}
	}
}

// actionNames returns every alias followed by every command id, sorted.
func actionNames() []string {
	aliases := action.Aliases()
	names := make([]string, 0, len(aliases)*2)
	seen := make(map[string]bool, len(aliases)*2)
	for alias, id := range aliases {
		for _, n := range []string{alias, string(id)} {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}
