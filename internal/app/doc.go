// Package app runs a full detection request: load the screenshot, read
// the template and cascade catalogues, run both pipelines, compose the
// overlay and optionally read captions and save a rendered overlay.
//
// Both the CLI and the MCP server drive detection through Runner.
package app
