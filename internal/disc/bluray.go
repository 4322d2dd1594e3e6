package disc

import "fmt"

// BluRayNotSupportedError reports that a Blu-ray disc was detected but cannot
// be inspected yet. The message is safe to print to users directly.
type BluRayNotSupportedError struct {
	Device string
	Tool   string
}

func (e *BluRayNotSupportedError) Error() string {
	description := "no Blu-ray inspection tool detected"
	if e.Tool != "" {
		description = fmt.Sprintf("detected %q", e.Tool)
	}
	return fmt.Sprintf("Blu-ray inspection is not supported yet in discripper; %s. Requested device: %q.", description, e.Device)
}

// BluRayInspectorCandidates lists commands that would act as a Blu-ray
// inspector once support lands.
var BluRayInspectorCandidates = []string{"makemkvcon", "bd_info"}
