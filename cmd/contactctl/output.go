package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/core"
)

const dateTimeFormat = "2006-01-02 15:04"

// maxMessageWidth truncates messages in table output.
const maxMessageWidth = 40

func (a *app) printSubmissions(w io.Writer, subs []core.Submission) error {
	if a.jsonOut {
		return printJSON(w, subs)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPLATFORM\tSUBMITTED\tMESSAGE")
	for _, s := range subs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Name, s.Email, s.Platform,
			s.Timestamp.Local().Format(dateTimeFormat),
			truncate(s.Message, maxMessageWidth),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d contact(s)\n", len(subs))
	return nil
}

func printStats(w io.Writer, st *core.Stats) {
	fmt.Fprintf(w, "Total:        %d\n", st.TotalRecords)
	fmt.Fprintf(w, "Last 7 days:  %d\n", st.RecentSubmissions)
	if st.LastUpdated != nil {
		fmt.Fprintf(w, "Last updated: %s\n", st.LastUpdated.Local().Format(time.RFC3339))
	} else {
		fmt.Fprintln(w, "Last updated: never")
	}

	if len(st.PlatformBreakdown) == 0 {
		return
	}
	fmt.Fprintln(w, "By platform:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, pc := range st.PlatformBreakdown {
		fmt.Fprintf(tw, "  %s\t%d\n", pc.Platform, pc.Count)
	}
	_ = tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
