// Package server implements the MCP (Model Context Protocol) server for spot
// color preparation of print artwork.
//
// This package provides a JSON-RPC 2.0 server that exposes the spotcolor engine
// and a few upload inspection helpers through the MCP protocol.
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
// Upload inspection:
//   - image_load: Load image and get metadata
//   - image_sample_color: Get color at pixel
//   - image_dominant_colors: Preview palette from a downsampled copy
//
// Spot color:
//   - spot_color_classify: Spot-color, gradient or full-color decision
//   - spot_color_simplify: Reduce to at most N flat colors
//   - spot_color_prepare: Classify, simplify if needed, and re-classify
//
// # Image Caching
//
// Uploads are cached by path, both as raw bytes for the spotcolor engine and
// decoded for the inspection helpers. spot_color_simplify evicts its
// output_path so a later call sees the new file.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	engine := spotcolor.New(spotcolor.DefaultConfig(), logger)
//	srv := server.New(engine, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal().Err(err).Msg("server error")
//	}
package server
