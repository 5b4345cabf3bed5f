// Package engine bridges the analyzer to an external UCI chess engine
// process, decoupling the interactive loop from search latency.
package engine

import (
	"strconv"
	"strings"
)

// infoLine is a parsed "info ..." search update. Engines interleave many
// token kinds; only depth, score and the principal variation matter here.
type infoLine struct {
	Depth    int
	CP       int
	Mate     int
	IsMate   bool
	HasScore bool
	PV       string // first move of the principal variation
}

// parseInfo parses an info line. ok is false for any other line; a
// malformed info line parses to whatever tokens were readable.
func parseInfo(line string) (infoLine, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "info" {
		return infoLine{}, false
	}
	var info infoLine
	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			if i+1 < len(fields) {
				info.Depth, _ = strconv.Atoi(fields[i+1])
				i++
			}
		case "score":
			if i+2 < len(fields) {
				if n, err := strconv.Atoi(fields[i+2]); err == nil {
					switch fields[i+1] {
					case "cp":
						info.CP = n
						info.HasScore = true
					case "mate":
						info.Mate = n
						info.IsMate = true
						info.HasScore = true
					}
				}
				i += 2
			}
		case "pv":
			if i+1 < len(fields) {
				info.PV = fields[i+1]
			}
			return info, true // pv runs to the end of the line
		}
	}
	return info, true
}

// parseBestMove parses a "bestmove ..." line. A "(none)" move (mated or
// stalemated position) yields an empty string.
func parseBestMove(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "bestmove" {
		return "", false
	}
	if fields[1] == "(none)" {
		return "", true
	}
	return fields[1], true
}
