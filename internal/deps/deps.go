package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Resolver locates an external command, returning its path and whether it was
// found. The zero value is unusable; use LookPath for the real PATH search or
// a map-backed stub in tests.
type Resolver func(name string) (string, bool)

// LookPath resolves commands against the process PATH.
func LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

// Requirement defines an external dependency discripper relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists every external tool the pipeline may shell out to.
func Requirements() []Requirement {
	return []Requirement{
		{Name: "lsdvd", Command: "lsdvd", Description: "DVD title table inspection"},
		{Name: "ffprobe", Command: "ffprobe", Description: "Fallback inspection and metadata enrichment", Optional: true},
		{Name: "dvdbackup", Command: "dvdbackup", Description: "Preferred ripping backend", Optional: true},
		{Name: "ffmpeg", Command: "ffmpeg", Description: "Fallback ripping backend", Optional: true},
		{Name: "HandBrakeCLI", Command: "HandBrakeCLI", Description: "Post-rip compression (plan only)", Optional: true},
		{Name: "makemkvcon", Command: "makemkvcon", Description: "Blu-ray disc detection", Optional: true},
		{Name: "bd_info", Command: "bd_info", Description: "Blu-ray disc detection", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements using resolve and reports
// availability.
func CheckBinaries(requirements []Requirement, resolve Resolver) []Status {
	if resolve == nil {
		resolve = LookPath
	}
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, ok := resolve(cmd)
		if !ok {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Command = path
		results = append(results, status)
	}
	return results
}
