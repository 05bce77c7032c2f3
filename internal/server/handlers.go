package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"emperror.dev/errors"

	"github.com/ironsheep/spotcolor-mcp/internal/imaging"
	"github.com/ironsheep/spotcolor-mcp/internal/spotcolor"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "spot_color_classify").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool execution failed")
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging or spotcolor function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Upload inspection
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)

	// Spot color
	case "spot_color_classify":
		return s.handleSpotColorClassify(args)
	case "spot_color_simplify":
		return s.handleSpotColorSimplify(args)
	case "spot_color_prepare":
		return s.handleSpotColorPrepare(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Upload Inspection Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageDominantColorsArgs struct {
	Path        string `json:"path"`
	Count       int    `json:"count"`
	PreviewSize int    `json:"preview_size"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	if a.PreviewSize == 0 {
		a.PreviewSize = 256
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(img, a.Count, a.PreviewSize)
}

// === Spot Color Handlers ===

type spotColorClassifyArgs struct {
	Path          string `json:"path"`
	PreSimplified bool   `json:"pre_simplified"`
}

func (s *Server) handleSpotColorClassify(args json.RawMessage) (interface{}, error) {
	var a spotColorClassifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := s.cache.Bytes(a.Path)
	if err != nil {
		return nil, err
	}
	return s.engine.Classify(data, a.PreSimplified)
}

type spotColorSimplifyArgs struct {
	Path       string `json:"path"`
	MaxColors  int    `json:"max_colors"`
	Format     string `json:"format"`
	OutputPath string `json:"output_path,omitempty"`
}

// simplifyResult is the tool view of a SimplificationResult: the image travels
// either inline as base64 or as the path it was written to.
type simplifyResult struct {
	*spotcolor.SimplificationResult
	ImageData  string `json:"image_data,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleSpotColorSimplify(args json.RawMessage) (interface{}, error) {
	var a spotColorSimplifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxColors == 0 {
		a.MaxColors = 2
	}
	format, err := spotcolor.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	data, err := s.cache.Bytes(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.SimplifyAs(data, a.MaxColors, format)
	if err != nil {
		return nil, err
	}

	out := &simplifyResult{SimplificationResult: res}
	if a.OutputPath == "" {
		out.ImageData = base64.StdEncoding.EncodeToString(res.Image)
		return out, nil
	}
	if err := os.WriteFile(a.OutputPath, res.Image, 0o644); err != nil {
		return nil, errors.Wrapf(err, "cannot write %s", a.OutputPath)
	}
	s.cache.Evict(a.OutputPath)
	out.OutputPath = a.OutputPath
	return out, nil
}

type spotColorPrepareArgs struct {
	Path      string `json:"path"`
	MaxColors int    `json:"max_colors"`
}

// prepareResult carries the simplified image inline, as spot_color_simplify does.
type prepareResult struct {
	*spotcolor.PrepareResult
	ImageData string `json:"image_data,omitempty"`
}

func (s *Server) handleSpotColorPrepare(args json.RawMessage) (interface{}, error) {
	var a spotColorPrepareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxColors == 0 {
		a.MaxColors = 2
	}
	data, err := s.cache.Bytes(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.Prepare(data, a.MaxColors)
	if err != nil {
		return nil, err
	}
	out := &prepareResult{PrepareResult: res}
	if res.Simplified != nil {
		out.ImageData = base64.StdEncoding.EncodeToString(res.Simplified.Image)
	}
	return out, nil
}
