package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"planner/internal/planner/geometry"
)

// ============================================================
// Path Parser
// ============================================================

var (
	pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)
	pathNumber  = regexp.MustCompile(`[-+]?(\d*\.\d+|\d+\.?)([eE][-+]?\d+)?`)
)

// ParsePath reads the straight-line subset of SVG path data (M, L, H, V, Z
// and their relative forms) into points. SVG y maps onto the plan's z axis.
// Extra coordinate pairs after M or L are treated as implicit line-tos.
func ParsePath(d string) ([]geometry.Vec2, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []geometry.Vec2
	var cur, start geometry.Vec2

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords, err := parseCoords(match[2])
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", d, err)
		}

		switch cmd {
		case "M", "m", "L", "l":
			relative := cmd == "m" || cmd == "l"
			for i := 0; i+1 < len(coords); i += 2 {
				next := geometry.Vec2{X: coords[i], Z: coords[i+1]}
				if relative {
					next = cur.Add(next)
				}
				cur = next
				if i == 0 && (cmd == "M" || cmd == "m") {
					start = cur
				}
				points = append(points, cur)
			}

		case "H", "h":
			for _, x := range coords {
				if cmd == "h" {
					x += cur.X
				}
				cur.X = x
				points = append(points, cur)
			}

		case "V", "v":
			for _, z := range coords {
				if cmd == "v" {
					z += cur.Z
				}
				cur.Z = z
				points = append(points, cur)
			}

		case "Z", "z":
			if len(points) > 0 {
				points = append(points, start)
				cur = start
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no points", d)
	}
	return points, nil
}

// parseCoords reads the numbers of one command. Numbers may be separated by
// whitespace, commas or nothing at all ("10-5", "0.5.5"); anything else is
// an error.
func parseCoords(s string) ([]float64, error) {
	var coords []float64
	rest := s
	for _, loc := range pathNumber.FindAllStringIndex(s, -1) {
		if gap := strings.Trim(s[len(s)-len(rest):loc[0]], " \t\r\n,"); gap != "" {
			return nil, fmt.Errorf("unexpected %q in coordinates", gap)
		}
		val, err := strconv.ParseFloat(s[loc[0]:loc[1]], 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", s[loc[0]:loc[1]], err)
		}
		coords = append(coords, val)
		rest = s[loc[1]:]
	}
	if gap := strings.Trim(rest, " \t\r\n,"); gap != "" {
		return nil, fmt.Errorf("unexpected %q in coordinates", gap)
	}
	return coords, nil
}
