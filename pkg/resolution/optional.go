package resolution

import (
	"runtime"
	"slices"
	"strings"
)

// OptionalStatus is the outcome of one optional dependency.
type OptionalStatus int

const (
	OptionalPending OptionalStatus = iota
	OptionalInstalled
	OptionalFailed
	OptionalSkipped
)

var optionalNames = [...]string{"pending", "installed", "failed", "skipped"}

func (s OptionalStatus) String() string { return optionalNames[s] }

// OptionalOutcome describes one optional dependency.
type OptionalOutcome struct {
	Name        string
	Range       string
	RequestedBy string
	Status      OptionalStatus
	Version     string // set when installed
	Reason      string // failure or skip reason
}

// OptionalSummary groups outcomes by status.
type OptionalSummary struct {
	Installed []OptionalOutcome
	Failed    []OptionalOutcome
	Skipped   []OptionalOutcome
	Pending   []OptionalOutcome
}

// Total is the number of registered optional dependencies.
func (s OptionalSummary) Total() int {
	return len(s.Installed) + len(s.Failed) + len(s.Skipped) + len(s.Pending)
}

// OptionalManager tracks optional dependencies so that their failure never
// fails the resolution.
type OptionalManager struct {
	order    []string
	outcomes map[string]*OptionalOutcome
}

// NewOptionalManager creates an empty manager.
func NewOptionalManager() *OptionalManager {
	return &OptionalManager{outcomes: make(map[string]*OptionalOutcome)}
}

// Register adds an optional dependency. Registering a name twice keeps the
// first registration.
func (m *OptionalManager) Register(name, rng, requestedBy string) {
	if _, ok := m.outcomes[name]; ok {
		return
	}
	m.order = append(m.order, name)
	m.outcomes[name] = &OptionalOutcome{Name: name, Range: rng, RequestedBy: requestedBy}
}

// IsOptional reports whether name was registered.
func (m *OptionalManager) IsOptional(name string) bool {
	_, ok := m.outcomes[name]
	return ok
}

func (m *OptionalManager) set(name string, status OptionalStatus, version, reason string) {
	if _, ok := m.outcomes[name]; !ok {
		m.Register(name, "", "")
	}
	o := m.outcomes[name]
	o.Status, o.Version, o.Reason = status, version, reason
}

// RecordSuccess marks name as installed at version.
func (m *OptionalManager) RecordSuccess(name, version string) {
	m.set(name, OptionalInstalled, version, "")
}

// RecordFailure marks name as failed.
func (m *OptionalManager) RecordFailure(name string, err error) {
	m.set(name, OptionalFailed, "", err.Error())
}

// RecordSkipped marks name as deliberately not installed.
func (m *OptionalManager) RecordSkipped(name, reason string) {
	m.set(name, OptionalSkipped, "", reason)
}

// Summary groups outcomes in registration order.
func (m *OptionalManager) Summary() OptionalSummary {
	var s OptionalSummary
	for _, name := range m.order {
		o := *m.outcomes[name]
		switch o.Status {
		case OptionalInstalled:
			s.Installed = append(s.Installed, o)
		case OptionalFailed:
			s.Failed = append(s.Failed, o)
		case OptionalSkipped:
			s.Skipped = append(s.Skipped, o)
		default:
			s.Pending = append(s.Pending, o)
		}
	}
	return s
}

// Platform is an operating system and CPU in npm's naming.
type Platform struct {
	OS  string
	CPU string
}

var (
	npmOS  = map[string]string{"windows": "win32"}
	npmCPU = map[string]string{"amd64": "x64", "386": "ia32"}
)

// CurrentPlatform describes the running system.
func CurrentPlatform() Platform {
	return PlatformOf(runtime.GOOS, runtime.GOARCH)
}

// PlatformOf converts GOOS and GOARCH values to npm names.
func PlatformOf(goos, goarch string) Platform {
	p := Platform{OS: goos, CPU: goarch}
	if v, ok := npmOS[goos]; ok {
		p.OS = v
	}
	if v, ok := npmCPU[goarch]; ok {
		p.CPU = v
	}
	return p
}

// Supports reports whether a package restricted to os and cpu lists can be
// installed on p. Lists follow npm: empty allows everything, "!name" excludes
// a value, and a list with any plain entries allows only those.
func (p Platform) Supports(os, cpu []string) bool {
	return allowed(os, p.OS) && allowed(cpu, p.CPU)
}

func allowed(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	if slices.Contains(list, "!"+value) {
		return false
	}
	positive := false
	for _, e := range list {
		if !strings.HasPrefix(e, "!") {
			positive = true
			if e == value {
				return true
			}
		}
	}
	return !positive
}
