package ui

import (
	"fmt"

	"lifereel/internal/core"
)

// Lines formats the frame counters followed by every parameter group.
func Lines(stats core.FrameStats, snap core.ParameterSnapshot) []string {
	lines := []string{
		fmt.Sprintf("FPS: %v", core.Truncate(stats.FPS, 2)),
		fmt.Sprintf("Maximum FPS: %v", core.Truncate(stats.Max, 2)),
		fmt.Sprintf("Minimum FPS: %v", core.Truncate(stats.Min, 2)),
	}
	for _, g := range snap.Groups {
		lines = append(lines, "", g.Name)
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %s: %s", p.Label, p.Value))
		}
	}
	return lines
}
