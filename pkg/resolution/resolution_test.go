package resolution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/lockfile"
)

var published = []string{"1.0.0", "1.2.0", "1.9.1", "2.0.0", "2.1.0-beta.1", "not-a-version"}

func TestSelectHighest(t *testing.T) {
	c := NewConflictResolver(Highest)
	require.NoError(t, c.Require("lib", "^1.0.0", ""))
	require.NoError(t, c.Require("lib", ">=1.2.0", "app"))

	v, err := c.Select("lib", published)
	require.NoError(t, err)
	require.Equal(t, "1.9.1", v)
	require.Empty(t, c.Conflicts())

	got, ok := c.Chosen("lib")
	require.True(t, ok)
	require.Equal(t, "1.9.1", got)
}

func TestSelectLowest(t *testing.T) {
	c := NewConflictResolver(ParseStrategy("lowest"))
	require.NoError(t, c.Require("lib", "^1.1.0", ""))
	v, err := c.Select("lib", published)
	require.NoError(t, err)
	require.Equal(t, "1.2.0", v)
	require.Equal(t, "lowest", Lowest.String())
}

func TestSelectConflict(t *testing.T) {
	c := NewConflictResolver(Highest)
	require.NoError(t, c.Require("lib", "^1.0.0", ""))
	require.NoError(t, c.Require("lib", "^2.0.0", "plugin"))

	v, err := c.Select("lib", published)
	require.NoError(t, err)
	require.Equal(t, "1.9.1", v, "first requirement wins")

	conflicts := c.Conflicts()
	require.Len(t, conflicts, 1)
	require.Equal(t, "1.9.1", conflicts[0].Chosen)
	require.Equal(t, "plugin", conflicts[0].Unsatisfied[0].RequestedBy)
}

func TestRequireAfterChoice(t *testing.T) {
	c := NewConflictResolver(Highest)
	require.NoError(t, c.Require("lib", "^1.0.0", ""))
	_, err := c.Select("lib", published)
	require.NoError(t, err)

	require.NoError(t, c.Require("lib", "~1.9.0", "a"))
	require.Empty(t, c.Conflicts())
	require.NoError(t, c.Require("lib", ">=2.0.0", "b"))
	require.Len(t, c.Conflicts(), 1)

	res := c.Resolutions()
	require.Len(t, res, 1)
	require.Len(t, res[0].Requirements, 3)
}

func TestSelectErrors(t *testing.T) {
	c := NewConflictResolver(Highest)
	require.True(t, perrors.Is(c.Require("lib", ">>>", ""), perrors.ErrCodeInvalidVersion))

	require.NoError(t, c.Require("lib", "^3.0.0", ""))
	_, err := c.Select("lib", published)
	require.True(t, perrors.Is(err, perrors.ErrCodeNoMatchingVersion))

	_, err = c.Select("other", nil)
	require.True(t, perrors.Is(err, perrors.ErrCodeNoMatchingVersion))

	v, err := c.Select("unconstrained", published)
	require.NoError(t, err)
	require.Equal(t, "2.0.0", v, "prereleases are not picked by an open range")
}

func TestPeerValidation(t *testing.T) {
	m := NewPeerManager(false)
	m.Declare("react-dom", "react", "^18.0.0", false)
	m.Declare("plugin", "eslint", ">=8", false)
	m.Declare("plugin", "typescript", ">=5", true)
	m.Declare("ui", "react", "^17.0.0", false)
	m.Declare("tool", "node", "workspace:*", false)

	res, err := m.Validate(map[string]string{"react": "18.2.0", "node": "20.0.0"})
	require.NoError(t, err)
	require.Len(t, res.Satisfied, 2)
	require.Len(t, res.Missing, 1, "missing optional peers are not reported")
	require.Equal(t, "eslint", res.Missing[0].Peer)
	require.Len(t, res.Incompatible, 1)
	require.Equal(t, "18.2.0", res.Incompatible[0].Installed)
	require.False(t, res.OK())
	require.Len(t, res.Warnings(), 2)

	strict := NewPeerManager(true)
	strict.Declare("a", "b", "^1", false)
	_, err = strict.Validate(nil)
	require.True(t, perrors.Is(err, perrors.ErrCodePeerDependency))
	require.Len(t, strict.Declarations(), 1)
}

func TestOptionalManager(t *testing.T) {
	m := NewOptionalManager()
	m.Register("fsevents", "^2", "chokidar")
	m.Register("sharp", "*", "")
	m.Register("pending", "*", "")
	m.Register("fsevents", "^9", "other")

	m.RecordSkipped("fsevents", "unsupported platform")
	m.RecordFailure("sharp", errors.New("no prebuilt binary"))
	m.RecordSuccess("late", "1.0.0")

	s := m.Summary()
	require.Equal(t, 4, s.Total())
	require.Equal(t, "^2", s.Skipped[0].Range, "first registration wins")
	require.Equal(t, "no prebuilt binary", s.Failed[0].Reason)
	require.Equal(t, "late", s.Installed[0].Name)
	require.Len(t, s.Pending, 1)
	require.True(t, m.IsOptional("sharp"))
	require.Equal(t, "skipped", OptionalSkipped.String())
}

func TestPlatformSupports(t *testing.T) {
	mac := PlatformOf("darwin", "arm64")
	win := PlatformOf("windows", "amd64")
	require.Equal(t, Platform{OS: "win32", CPU: "x64"}, win)

	require.True(t, mac.Supports(nil, nil))
	require.True(t, mac.Supports([]string{"darwin"}, []string{"arm64", "x64"}))
	require.False(t, win.Supports([]string{"darwin"}, nil))
	require.False(t, mac.Supports([]string{"!darwin"}, nil))
	require.True(t, win.Supports([]string{"!darwin"}, nil))
	require.False(t, win.Supports(nil, []string{"arm64"}))
}

func TestContextLockAndReport(t *testing.T) {
	lock := lockfile.New()
	lock.Put(lockfile.Entry{Name: "lib", Version: "1.2.0"})
	lock.Put(lockfile.Entry{Name: "lib", Version: "1.9.1"})
	lock.Put(lockfile.Entry{Name: "lib", Version: "2.0.0"})

	var side []string
	ctx := NewContext(Options{Lock: lock, Warn: func(f string, a ...any) { side = append(side, f) }})
	require.NotEmpty(t, ctx.ID)

	e, ok := ctx.Locked("lib", "^1.0.0")
	require.True(t, ok)
	require.Equal(t, "1.9.1", e.Version)
	_, ok = ctx.Locked("lib", "^3.0.0")
	require.False(t, ok)
	_, ok = NewContext(Options{}).Locked("lib", "*")
	require.False(t, ok)

	require.NoError(t, ctx.Conflicts.Require("lib", "^1.0.0", ""))
	require.NoError(t, ctx.Conflicts.Require("lib", "^2.0.0", "plugin"))
	ctx.Conflicts.Choose("lib", "1.9.1")
	ctx.Optional.Register("fsevents", "^2", "lib")
	ctx.Optional.RecordSkipped("fsevents", "unsupported platform")
	ctx.Warn("catalog entry %q skipped", "x")
	require.Len(t, side, 1)

	peers := PeerResult{Missing: []PeerDecl{{Package: "lib", Peer: "react", Range: "^18"}}}
	res := ctx.Result([]Package{{Name: "lib", Version: "1.9.1", Origin: "npm"}}, peers)
	require.Equal(t, []string{"lib"}, res.Order)

	report := res.Report()
	require.Contains(t, report, "lib@1.9.1 (npm)")
	require.Contains(t, report, "plugin requires ^2.0.0")
	require.Contains(t, report, "missing peer: lib wants peer react@^18")
	require.Contains(t, report, "skipped fsevents: unsupported platform")
	require.Contains(t, report, `catalog entry "x" skipped`)

	lf := res.LockFile()
	entry, ok := lf.Get("lib", "1.9.1")
	require.True(t, ok)
	require.Equal(t, "npm", entry.Origin)

	p, ok := res.Package("lib")
	require.True(t, ok)
	require.Equal(t, "1.9.1", p.Version)
}
