package domain

// DetectionResult is the envelope returned by the ingredient-detection
// endpoint. Class names arrive pre-lowercased and deduplicated (one best
// detection per class).
type DetectionResult struct {
	Success             bool           `json:"success"`
	Error               string         `json:"error,omitempty"`
	RawDetections       []RawDetection `json:"raw_detections"`
	DetectedIngredients []string       `json:"detected_ingredients"`
	BoundingBoxes       []BoundingBox  `json:"bounding_boxes"`
}

// RawDetection is a single model prediction. Confidence is a percentage
// in [0, 100], already rounded server-side.
type RawDetection struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// BoundingBox locates a detection on the source image. X and Y are the box
// CENTER in source pixels, the convention the detection API uses.
// Confidence is a percentage like RawDetection's.
type BoundingBox struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// TopLeft converts the center-based coordinates to the top-left corner
// used for drawing.
func (b BoundingBox) TopLeft() (x, y float64) {
	return b.X - b.Width/2, b.Y - b.Height/2
}
