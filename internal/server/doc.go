// Package server exposes UI element detection as an MCP (Model Context
// Protocol) server.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - ui_detect: run template matching and shape detectors, compose the overlay
//   - ui_detect_templates: template matching only
//   - ui_detect_cascades: shape detectors only
//   - ui_image_info: dimensions, format and file size
//   - ui_crop_region: base64 PNG of one region, optionally scaled
//
// Detection tools return the run report as JSON: the accepted regions per
// class, the composed overlay, optional captions and the diagnostics.
//
// # Image Caching
//
// Screenshots and template images are cached by path for the lifetime of
// the process, so repeated calls only decode new files.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Diagnostics such as "template not found" are part of a successful result,
// not errors.
//
// # Usage
//
//	srv := server.New(app.NewRunner(settings, log))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
