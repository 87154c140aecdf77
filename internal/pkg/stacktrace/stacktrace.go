package stacktrace

import "strings"

// InternalPaths trims a raw goroutine stack down to the frames that live
// under this module's internal tree, returned as short "internal/..." paths.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))
	for i := 0; i < len(lines)-1; i++ {
		frame := strings.TrimSpace(lines[i+1])
		if !strings.Contains(frame, "/internal/") || !strings.Contains(frame, ".go") {
			continue
		}
		idx := strings.Index(frame, ".go:")
		if idx == -1 {
			continue
		}
		end := strings.Index(frame[idx:], " ")
		if end == -1 {
			end = len(frame)
		} else {
			end += idx
		}
		short := frame[:end]
		if cut := strings.Index(short, "/internal/"); cut != -1 {
			paths = append(paths, short[cut+1:])
		}
	}
	return paths
}
