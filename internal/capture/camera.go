package capture

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
)

// grabTimeout bounds how long Grab waits for the device to deliver a frame.
const grabTimeout = 5 * time.Second

// CameraSource pulls JPEG frames from a V4L2 device through a GStreamer
// pipeline: v4l2src ! videoconvert ! jpegenc ! appsink. The pipeline starts
// lazily on the first Grab and keeps running until Stop, so follow-up snaps
// skip the device warm-up.
type CameraSource struct {
	device string
	width  int
	height int
	log    *logger.Logger

	mu       sync.Mutex
	pipeline *gst.Pipeline
	frames   chan []byte
}

var _ FrameSource = (*CameraSource)(nil)

// NewCameraSource does not touch the device yet; failures surface on Grab.
func NewCameraSource(device string, width, height int, log *logger.Logger) *CameraSource {
	if width <= 0 || height <= 0 {
		width, height = 640, 480
	}
	return &CameraSource{device: device, width: width, height: height, log: log}
}

// Grab returns the next frame off the camera. The first call builds and
// starts the pipeline.
func (c *CameraSource) Grab() (*Snapshot, error) {
	c.mu.Lock()
	if c.pipeline == nil {
		if err := c.start(); err != nil {
			c.mu.Unlock()
			return nil, err
		}
	}
	frames := c.frames
	c.mu.Unlock()

	select {
	case data := <-frames:
		return c.snapshot(data)
	case <-time.After(grabTimeout):
		return nil, fmt.Errorf("capture: no frame from %s within %s: %w", c.device, grabTimeout, domain.ErrCameraUnavailable)
	}
}

func (c *CameraSource) snapshot(data []byte) (*Snapshot, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("capture: bad frame from %s: %w", c.device, err)
	}
	snap := &Snapshot{
		ID:     uuid.NewString(),
		Source: c.device,
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
	}
	c.log.Debug("camera frame %s (%dx%d, %d bytes)", snap.ID, snap.Width, snap.Height, len(data))
	return snap, nil
}

// start builds the pipeline. Caller holds c.mu.
func (c *CameraSource) start() error {
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return fmt.Errorf("capture: create pipeline: %w", err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return fmt.Errorf("capture: v4l2src unavailable: %w", domain.ErrCameraUnavailable)
	}
	src.SetProperty("device", c.device)

	convert, err := gst.NewElement("videoconvert")
	if err != nil {
		return fmt.Errorf("capture: create videoconvert: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return fmt.Errorf("capture: create capsfilter: %w", err)
	}
	capsfilter.SetProperty("caps", gst.NewCapsFromString(
		fmt.Sprintf("video/x-raw,width=%d,height=%d", c.width, c.height)))

	enc, err := gst.NewElement("jpegenc")
	if err != nil {
		return fmt.Errorf("capture: create jpegenc: %w", err)
	}

	sink, err := app.NewAppSink()
	if err != nil {
		return fmt.Errorf("capture: create appsink: %w", err)
	}
	sink.SetProperty("sync", false)
	sink.SetProperty("max-buffers", 1)
	sink.SetProperty("drop", true)

	if err := pipeline.AddMany(src, convert, capsfilter, enc, sink.Element); err != nil {
		return fmt.Errorf("capture: assemble pipeline: %w", err)
	}
	if err := gst.ElementLinkMany(src, convert, capsfilter, enc, sink.Element); err != nil {
		return fmt.Errorf("capture: link pipeline: %w", err)
	}

	frames := make(chan []byte, 1)
	sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(s *app.Sink) gst.FlowReturn {
			sample := s.PullSample()
			if sample == nil {
				return gst.FlowOK
			}
			buffer := sample.GetBuffer()
			if buffer == nil {
				return gst.FlowOK
			}
			mapInfo := buffer.Map(gst.MapRead)
			data := mapInfo.Bytes()
			if len(data) == 0 {
				buffer.Unmap()
				return gst.FlowOK
			}
			// GStreamer reuses the buffer after Unmap.
			frame := make([]byte, len(data))
			copy(frame, data)
			buffer.Unmap()

			select {
			case frames <- frame:
			default:
				// Grab is not waiting; keep only the latest.
				select {
				case <-frames:
				default:
				}
				select {
				case frames <- frame:
				default:
				}
			}
			return gst.FlowOK
		},
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("capture: start %s: %w", c.device, domain.ErrCameraUnavailable)
	}

	c.pipeline = pipeline
	c.frames = frames
	c.log.Info("camera %s started (%dx%d)", c.device, c.width, c.height)
	return nil
}

// Stop releases the device. Safe to call repeatedly and before any Grab;
// the next Grab rebuilds the pipeline.
func (c *CameraSource) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pipeline == nil {
		return
	}
	c.pipeline.SetState(gst.StateNull)
	c.pipeline = nil
	c.frames = nil
	c.log.Info("camera %s released", c.device)
}

// Active reports whether the pipeline is currently holding the device.
func (c *CameraSource) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pipeline != nil
}
