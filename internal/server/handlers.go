package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/comic-ocr/internal/batch"
	"github.com/ironsheep/comic-ocr/internal/imaging"
	"github.com/ironsheep/comic-ocr/internal/region"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "comic_ocr_page").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("Tool execution failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "comic_plan_regions":
		return s.handlePlanRegions(args)
	case "comic_ocr_page":
		return s.handleOCRPage(ctx, args)
	case "comic_ocr_info":
		return s.info(), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pageArgs struct {
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
	Write bool   `json:"write"`
}

func (s *Server) parsePageArgs(args json.RawMessage) (pageArgs, error) {
	a := pageArgs{Rows: s.rows}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return a, err
		}
	}
	if a.Path == "" {
		return a, fmt.Errorf("path is required")
	}
	if a.Rows < 0 {
		return a, fmt.Errorf("rows must be positive, got %d", a.Rows)
	}
	return a, nil
}

// PlanResult describes how a page will be split for OCR.
type PlanResult struct {
	Image   imaging.ImageInfo `json:"image"`
	Regions []region.ROI      `json:"regions"`
}

func (s *Server) handlePlanRegions(args json.RawMessage) (interface{}, error) {
	a, err := s.parsePageArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	info := imaging.Describe(img, a.Path)
	rois, err := region.Plan(float64(info.Width), float64(info.Height), a.Rows)
	if err != nil {
		return nil, err
	}
	return &PlanResult{Image: info, Regions: rois}, nil
}

// PageResult is the text of one page and where it was written, if anywhere.
type PageResult struct {
	Text    string             `json:"text"`
	Output  string             `json:"output,omitempty"`
	Regions []batch.RegionStat `json:"regions"`
}

func (s *Server) handleOCRPage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := s.parsePageArgs(args)
	if err != nil {
		return nil, err
	}

	// A page is usually planned, then recognized once; drop it afterwards so
	// the cache only holds pages still being worked on.
	defer s.cache.Evict(a.Path)

	driver := batch.NewDriver(s.recognizer,
		batch.WithRows(a.Rows),
		batch.WithLogger(s.log),
		batch.WithLoader(s.cache.Load),
	)

	if a.Write {
		res, err := driver.ProcessOne(ctx, a.Path)
		if err != nil {
			return nil, err
		}
		return &PageResult{Text: res.Page.Text, Output: res.Output, Regions: res.Page.Regions}, nil
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	page, err := driver.ProcessPage(ctx, img)
	if err != nil {
		return nil, err
	}
	return &PageResult{Text: page.Text, Regions: page.Regions}, nil
}
