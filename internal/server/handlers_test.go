package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImageFile creates a solid test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeImageFile(t, "solid.png", img)
}

// writeImageFile encodes img as PNG into a per-test directory
func writeImageFile(t *testing.T, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// splitImage is red on the left half, blue on the right
func splitImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				img.SetNRGBA(x, y, color.NRGBA{255, 0, 0, 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

// rainbowImage is a 256x16 strip around the hue wheel, a full-color image
func rainbowImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 16))
	for x := 0; x < 256; x++ {
		t := x * 6
		f := uint8(t % 256)
		var c color.NRGBA
		switch t / 256 {
		case 0:
			c = color.NRGBA{255, f, 0, 255}
		case 1:
			c = color.NRGBA{255 - f, 255, 0, 255}
		case 2:
			c = color.NRGBA{0, 255, f, 255}
		case 3:
			c = color.NRGBA{0, 255 - f, 255, 255}
		case 4:
			c = color.NRGBA{f, 0, 255, 255}
		default:
			c = color.NRGBA{255, 0, 255 - f, 255}
		}
		for y := 0; y < 16; y++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// callTool runs a tools/call request and decodes the text content of a
// successful result.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (map[string]interface{}, *MCPError) {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", result["content"])
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("tool result is not a JSON object: %v", err)
	}
	return out, nil
}

// decodeImageData decodes the base64 image_data field of a result
func decodeImageData(t *testing.T, result map[string]interface{}) []byte {
	t.Helper()

	s, ok := result["image_data"].(string)
	if !ok || s == "" {
		t.Fatal("image_data missing")
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("image_data is not base64: %v", err)
	}
	return data
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	result, rpcErr := callTool(t, s, "image_load", map[string]interface{}{"path": imgPath})
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}

	if result["width"] != float64(100) || result["height"] != float64(80) {
		t.Errorf("size: got %vx%v, want 100x80", result["width"], result["height"])
	}
	if result["format"] != "png" || result["mime_type"] != "image/png" {
		t.Errorf("format: got %v/%v, want png/image/png", result["format"], result["mime_type"])
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := newTestServer()

	for _, name := range []string{"image_load", "spot_color_classify", "spot_color_simplify", "spot_color_prepare"} {
		t.Run(name, func(t *testing.T) {
			_, rpcErr := callTool(t, s, name, map[string]interface{}{"path": "/nonexistent/image.png"})
			if rpcErr == nil {
				t.Fatal("Expected error for non-existent file")
			}
			if rpcErr.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", rpcErr.Code)
			}
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := newTestServer()

	_, rpcErr := callTool(t, s, "image_crop", map[string]interface{}{})
	if rpcErr == nil {
		t.Fatal("Expected error for unknown tool")
	}
	if rpcErr.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", rpcErr.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid json`),
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := newTestServer()
	imgPath := writeImageFile(t, "split.png", splitImage())

	tests := []struct {
		x, y int
		want string
	}{
		{10, 10, "#FF0000"},
		{90, 10, "#0000FF"},
	}

	for _, tt := range tests {
		result, rpcErr := callTool(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": tt.x, "y": tt.y})
		if rpcErr != nil {
			t.Fatalf("Unexpected error: %v", rpcErr)
		}
		if result["hex"] != tt.want {
			t.Errorf("(%d,%d): got %v, want %s", tt.x, tt.y, result["hex"], tt.want)
		}
	}

	if _, rpcErr := callTool(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 500, "y": 0}); rpcErr == nil {
		t.Error("Expected error for out of bounds sample")
	}
}

func TestHandleToolsCall_DominantColors(t *testing.T) {
	s := newTestServer()
	imgPath := writeImageFile(t, "rainbow.png", rainbowImage())

	result, rpcErr := callTool(t, s, "image_dominant_colors", map[string]interface{}{"path": imgPath})
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}

	colors, ok := result["colors"].([]interface{})
	if !ok {
		t.Fatal("colors should be a list")
	}
	if len(colors) != 5 {
		t.Errorf("default count: got %d colors, want 5", len(colors))
	}
	if result["preview_width"] != float64(256) {
		t.Errorf("preview_width: got %v, want 256", result["preview_width"])
	}

	result, rpcErr = callTool(t, s, "image_dominant_colors", map[string]interface{}{"path": imgPath, "count": 2, "preview_size": 64})
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}
	if got := len(result["colors"].([]interface{})); got != 2 {
		t.Errorf("count: got %d colors, want 2", got)
	}
	if result["preview_width"] != float64(64) || result["preview_height"] != float64(4) {
		t.Errorf("preview: got %vx%v, want 64x4", result["preview_width"], result["preview_height"])
	}
}

func TestHandleToolsCall_Classify(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name      string
		img       image.Image
		wantType  string
		wantSpot  bool
		wantCount float64
	}{
		{"split", splitImage(), "spot-color", true, 2},
		{"rainbow", rainbowImage(), "full-color", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imgPath := writeImageFile(t, tt.name+".png", tt.img)

			result, rpcErr := callTool(t, s, "spot_color_classify", map[string]interface{}{"path": imgPath})
			if rpcErr != nil {
				t.Fatalf("Unexpected error: %v", rpcErr)
			}
			if result["image_type"] != tt.wantType {
				t.Errorf("image_type: got %v, want %s", result["image_type"], tt.wantType)
			}
			if result["is_spot_color"] != tt.wantSpot {
				t.Errorf("is_spot_color: got %v, want %v", result["is_spot_color"], tt.wantSpot)
			}
			if result["spot_color_count"] != tt.wantCount {
				t.Errorf("spot_color_count: got %v, want %v", result["spot_color_count"], tt.wantCount)
			}
		})
	}
}

func TestHandleToolsCall_ClassifyPreSimplified(t *testing.T) {
	s := newTestServer()
	imgPath := writeImageFile(t, "rainbow.png", rainbowImage())

	result, rpcErr := callTool(t, s, "spot_color_classify", map[string]interface{}{"path": imgPath, "pre_simplified": true})
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}
	if result["is_spot_color"] != true || result["spot_color_count"] != float64(2) {
		t.Errorf("got spot=%v count=%v, want true and 2", result["is_spot_color"], result["spot_color_count"])
	}
	if result["pre_simplified"] != true {
		t.Error("pre_simplified should be echoed")
	}
}

func TestHandleToolsCall_Simplify(t *testing.T) {
	s := newTestServer()
	imgPath := writeImageFile(t, "rainbow.png", rainbowImage())

	result, rpcErr := callTool(t, s, "spot_color_simplify", map[string]interface{}{"path": imgPath})
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}

	if result["format"] != "png" || result["mime_type"] != "image/png" {
		t.Errorf("format: got %v/%v, want png/image/png", result["format"], result["mime_type"])
	}
	if selected, ok := result["selected_colors"].([]interface{}); !ok || len(selected) != 2 {
		t.Errorf("selected_colors: got %v, want 2 entries", result["selected_colors"])
	}
	if _, ok := result["output_path"]; ok {
		t.Error("output_path should be omitted when returning image data")
	}

	data := decodeImageData(t, result)
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image_data is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 16 {
		t.Errorf("size: got %dx%d, want 256x16", b.Dx(), b.Dy())
	}
}

func TestHandleToolsCall_SimplifyBMP(t *testing.T) {
	s := newTestServer()
	imgPath := writeImageFile(t, "rainbow.png", rainbowImage())

	result, rpcErr := callTool(t, s, "spot_color_simplify", map[string]interface{}{"path": imgPath, "format": "bmp", "max_colors": 3})
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}
	if result["mime_type"] != "image/bmp" {
		t.Errorf("mime_type: got %v, want image/bmp", result["mime_type"])
	}
	if data := decodeImageData(t, result); !bytes.HasPrefix(data, []byte("BM")) {
		t.Error("image_data should be a BMP")
	}
	if selected := result["selected_colors"].([]interface{}); len(selected) != 3 {
		t.Errorf("selected_colors: got %d, want 3", len(selected))
	}
}

func TestHandleToolsCall_SimplifyToFile(t *testing.T) {
	s := newTestServer()
	srcPath := writeImageFile(t, "rainbow.png", rainbowImage())
	outPath := writeImageFile(t, "out.png", splitImage())

	// prime the cache with the old contents of the output path
	if _, rpcErr := callTool(t, s, "image_load", map[string]interface{}{"path": outPath}); rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}

	result, rpcErr := callTool(t, s, "spot_color_simplify", map[string]interface{}{"path": srcPath, "output_path": outPath})
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}
	if result["output_path"] != outPath {
		t.Errorf("output_path: got %v, want %s", result["output_path"], outPath)
	}
	if _, ok := result["image_data"]; ok {
		t.Error("image_data should be omitted when writing a file")
	}

	info, rpcErr := callTool(t, s, "image_load", map[string]interface{}{"path": outPath})
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}
	if info["width"] != float64(256) {
		t.Errorf("cached output not refreshed: width %v, want 256", info["width"])
	}

	check, rpcErr := callTool(t, s, "spot_color_classify", map[string]interface{}{"path": outPath, "pre_simplified": true})
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}
	if check["is_spot_color"] != true || check["total_unique_colors"] != float64(2) {
		t.Errorf("written file: got spot=%v colors=%v, want true and 2", check["is_spot_color"], check["total_unique_colors"])
	}
}

func TestHandleToolsCall_SimplifyErrors(t *testing.T) {
	s := newTestServer()
	imgPath := writeImageFile(t, "split.png", splitImage())

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"negative max_colors", map[string]interface{}{"path": imgPath, "max_colors": -1}},
		{"unsupported format", map[string]interface{}{"path": imgPath, "format": "jpeg"}},
		{"unwritable output", map[string]interface{}{"path": imgPath, "output_path": filepath.Join(t.TempDir(), "missing", "out.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rpcErr := callTool(t, s, "spot_color_simplify", tt.args)
			if rpcErr == nil {
				t.Fatal("Expected error")
			}
			if rpcErr.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", rpcErr.Code)
			}
		})
	}
}

func TestHandleToolsCall_Prepare(t *testing.T) {
	s := newTestServer()

	t.Run("already spot color", func(t *testing.T) {
		imgPath := writeImageFile(t, "split.png", splitImage())

		result, rpcErr := callTool(t, s, "spot_color_prepare", map[string]interface{}{"path": imgPath})
		if rpcErr != nil {
			t.Fatalf("Unexpected error: %v", rpcErr)
		}
		if result["accepted"] != true {
			t.Error("split image should be accepted as is")
		}
		for _, field := range []string{"simplified", "confirmation", "image_data"} {
			if _, ok := result[field]; ok {
				t.Errorf("%s should be omitted", field)
			}
		}
	})

	t.Run("full color", func(t *testing.T) {
		imgPath := writeImageFile(t, "rainbow.png", rainbowImage())

		result, rpcErr := callTool(t, s, "spot_color_prepare", map[string]interface{}{"path": imgPath})
		if rpcErr != nil {
			t.Fatalf("Unexpected error: %v", rpcErr)
		}
		if result["accepted"] != true {
			t.Error("simplified image should be accepted")
		}
		original := result["original"].(map[string]interface{})
		if original["image_type"] != "full-color" {
			t.Errorf("original image_type: got %v, want full-color", original["image_type"])
		}
		confirmation := result["confirmation"].(map[string]interface{})
		if confirmation["is_spot_color"] != true || confirmation["pre_simplified"] != true {
			t.Errorf("confirmation: got %v", confirmation)
		}
		if _, err := png.Decode(bytes.NewReader(decodeImageData(t, result))); err != nil {
			t.Errorf("image_data is not a PNG: %v", err)
		}
	})
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{128, 128, 128, 255})

	// Test each tool to ensure executeTool correctly dispatches
	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"image_load", map[string]interface{}{"path": imgPath}},
		{"image_sample_color", map[string]interface{}{"path": imgPath, "x": 50, "y": 50}},
		{"image_dominant_colors", map[string]interface{}{"path": imgPath}},
		{"spot_color_classify", map[string]interface{}{"path": imgPath}},
		{"spot_color_simplify", map[string]interface{}{"path": imgPath}},
		{"spot_color_prepare", map[string]interface{}{"path": imgPath}},
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			argsJSON, _ := json.Marshal(tt.args)
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}

	// every advertised tool must be dispatched
	for _, tool := range GetToolDefinitions() {
		found := false
		for _, tt := range toolTests {
			if tt.name == tool.Name {
				found = true
			}
		}
		if !found {
			t.Errorf("tool %s not covered", tool.Name)
		}
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := newTestServer()

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer()

	_, err := s.executeTool("spot_color_classify", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}
