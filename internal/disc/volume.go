package disc

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const sectorSize = 2048

// VolumeSize probes the disc's reported volume size in bytes by reading
// dvdbackup's info output. A zero return with nil error never happens; probe
// failures surface as errors so callers can continue without a total.
func VolumeSize(ctx context.Context, tool, device string, timeout time.Duration) (int64, error) {
	probeCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		probeCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// dvdbackup prints disc info on stdout or stderr depending on version.
	output, err := exec.CommandContext(probeCtx, tool, "-i", device, "-I").CombinedOutput()
	if err != nil && len(output) == 0 {
		return 0, fmt.Errorf("run %s -I: %w", tool, err)
	}
	return ParseVolumeSize(string(output))
}

// ParseVolumeSize extracts the sector count from a "Volume size is: <N>" line
// and converts it to bytes using the 2048-byte DVD sector size.
func ParseVolumeSize(output string) (int64, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		rest, ok := strings.CutPrefix(line, "Volume size is:")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		sectors, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil || sectors <= 0 {
			continue
		}
		return sectors * sectorSize, nil
	}
	return 0, fmt.Errorf("no volume size in disc info output")
}
