// Package server exposes the comic OCR pipeline as an MCP (Model Context
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
//   - comic_plan_regions: Page dimensions and the regions it would be split into
//   - comic_ocr_page: Recognize a page and optionally write its .txt file
//   - comic_ocr_info: Report OCR backend availability
//
// # Image Caching
//
// Pages are cached by path for the lifetime of the server, so planning and
// recognizing the same page decode it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, including the pipeline error code
package server
