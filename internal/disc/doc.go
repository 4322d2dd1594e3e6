// Package disc interfaces with optical media inspection tools.
//
// It shells out to lsdvd for DVD title tables, falls back to ffprobe for
// single-title devices, loads JSON fixtures for simulated runs, and probes
// reported volume sizes for byte-total estimation. Parsers live here to keep
// tool output quirks isolated from planning and execution code.
package disc
