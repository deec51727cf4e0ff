package correlate

import "github.com/ironsheep/ui-detect/internal/detection"

var backends = map[string]func() detection.Correlator{
	"ncc": func() detection.Correlator { return NCC{} },
}

// Default returns the fastest correlator compiled into the binary.
func Default() detection.Correlator {
	if f, ok := backends["opencv"]; ok {
		return f()
	}
	return NCC{}
}

// Backends lists the available correlator names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for _, n := range []string{"ncc", "opencv"} {
		if _, ok := backends[n]; ok {
			names = append(names, n)
		}
	}
	return names
}
