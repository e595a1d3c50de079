package diag

import (
	"fmt"
	"io"
)

const rule = "=================================================="

func marker(r Result) string {
	switch {
	case r.OK:
		return "[PASS]"
	case r.Severity == Critical:
		return "[FAIL]"
	default:
		return "[WARN]"
	}
}

func printReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "%s\n   LiveTalking System Check\n%s\n", rule, rule)

	var passed, failed, warned int
	for _, res := range r.Results {
		fmt.Fprintf(w, "%s %s: %s\n", marker(res), res.Name, res.Summary)
		for _, d := range res.Details {
			fmt.Fprintf(w, "       %s\n", d)
		}
		switch {
		case res.OK:
			passed++
		case res.Severity == Critical:
			failed++
		default:
			warned++
		}
	}

	fmt.Fprintf(w, "%s\nSummary: %d passed, %d failed, %d warnings\n", rule, passed, failed, warned)
	if r.Passed() {
		fmt.Fprintln(w, "System check passed, ready to launch: livelaunch launch")
	} else {
		fmt.Fprintln(w, "[ERROR] Critical problems found, fix the failures above first")
	}
}
