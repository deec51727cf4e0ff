// Package config reads the run settings and the two catalogues that name
// what to look for: one for shape detectors and one for templates.
//
// A catalogue is a text file of "name path" lines:
//
//	# class   resource
//	ok_button buttons/ok.png
//	close     cascades/close.pico
//	panel     builtin:boxes
//
// Relative paths are resolved against the data directory.
package config
