package resolution

import (
	"fmt"
	"strings"
)

// Report formats the result for a terminal: the plan, then conflicts, peer
// problems, optional dependency outcomes and warnings. Empty sections are
// left out.
func (r *Result) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resolved %d packages (session %s)\n", len(r.Packages), r.ID)
	for _, p := range r.Packages {
		fmt.Fprintf(&b, "  %s@%s", p.Name, p.Version)
		var tags []string
		if p.Origin != "" {
			tags = append(tags, p.Origin)
		}
		if p.Link {
			tags = append(tags, "link")
		}
		if p.Optional {
			tags = append(tags, "optional")
		}
		if p.Dev {
			tags = append(tags, "dev")
		}
		if len(tags) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(tags, ", "))
		}
		b.WriteByte('\n')
	}

	if len(r.Conflicts) > 0 {
		fmt.Fprintf(&b, "\nConflicts (%d):\n", len(r.Conflicts))
		for _, c := range r.Conflicts {
			fmt.Fprintf(&b, "  %s: chose %s\n", c.Name, c.Chosen)
			for _, req := range c.Unsatisfied {
				fmt.Fprintf(&b, "    %s requires %s\n", label(req.RequestedBy), req.Range)
			}
		}
	}

	if warnings := r.Peers.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(&b, "\nPeer dependencies (%d satisfied, %d problems):\n", len(r.Peers.Satisfied), len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}

	if r.Optional.Total() > 0 {
		o := r.Optional
		fmt.Fprintf(&b, "\nOptional dependencies: %d installed, %d failed, %d skipped\n",
			len(o.Installed), len(o.Failed), len(o.Skipped))
		for _, f := range o.Failed {
			fmt.Fprintf(&b, "  failed %s: %s\n", f.Name, f.Reason)
		}
		for _, s := range o.Skipped {
			fmt.Fprintf(&b, "  skipped %s: %s\n", s.Name, s.Reason)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}
	return b.String()
}
