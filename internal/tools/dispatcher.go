// Package tools gates and executes tool actions named by a structured
// reply. The recognized operations drive the client's 3D anatomy viewer;
// each successful execution yields a camera command the controller
// forwards verbatim.
package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satori-health/meridia/domain/entities"
)

// Result is the outcome of one tool execution. CameraCommand, when
// non-nil, is forwarded to the client unchanged.
type Result struct {
	Success       bool
	CameraCommand map[string]interface{}
}

type viewpoint struct {
	Position []float64
	Target   []float64
}

// Preset viewpoints for the default anatomy model.
var viewpoints = map[string]viewpoint{
	"front":          {Position: []float64{0, 0, 250}, Target: []float64{0, 0, 0}},
	"back":           {Position: []float64{0, 0, -250}, Target: []float64{0, 0, 0}},
	"left_shoulder":  {Position: []float64{-180, 60, 120}, Target: []float64{-40, 50, 0}},
	"right_shoulder": {Position: []float64{180, 60, 120}, Target: []float64{40, 50, 0}},
}

// Dispatcher executes recognized camera-navigation operations.
type Dispatcher struct {
	logger *zap.Logger
}

// NewDispatcher creates a tool dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// CanHandle returns true only for operation names the dispatcher
// recognizes. Execute must only be called after CanHandle returned true.
func (d *Dispatcher) CanHandle(operation string) bool {
	switch operation {
	case "navigate_to_viewpoint", "focus_anatomy", "show_front_view", "show_back_view":
		return true
	default:
		return false
	}
}

// Execute runs a recognized tool action and returns its result.
func (d *Dispatcher) Execute(ctx context.Context, action entities.ToolAction) (Result, error) {
	switch action.Operation {
	case "show_front_view":
		return d.panTo("front")
	case "show_back_view":
		return d.panTo("back")
	case "navigate_to_viewpoint":
		id := stringParam(action.Parameters, "viewpoint", "viewpoint_id")
		if id == "" {
			return Result{}, fmt.Errorf("navigate_to_viewpoint: missing viewpoint")
		}
		return d.panTo(id)
	case "focus_anatomy":
		return d.focus(action.Parameters)
	default:
		return Result{}, fmt.Errorf("unrecognized operation %q", action.Operation)
	}
}

func (d *Dispatcher) panTo(viewpointID string) (Result, error) {
	vp, ok := viewpoints[viewpointID]
	if !ok {
		return Result{}, fmt.Errorf("viewpoint %q not found", viewpointID)
	}

	d.logger.Info("Panning camera to viewpoint", zap.String("viewpoint", viewpointID))

	return Result{
		Success: true,
		CameraCommand: map[string]interface{}{
			"action": "camera.set",
			"params": map[string]interface{}{
				"position": vp.Position,
				"target":   vp.Target,
				"animate":  true,
				"duration": 1000,
			},
		},
	}, nil
}

// stringParam returns the first non-empty string under any of the given
// keys. Generator output varies between camelCase and snake_case spellings
// of the same parameter, so both are accepted.
func stringParam(params map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, _ := params[key].(string); v != "" {
			return v
		}
	}
	return ""
}

func (d *Dispatcher) focus(params map[string]interface{}) (Result, error) {
	objectID := stringParam(params, "objectId", "object_id")
	if objectID == "" {
		return Result{}, fmt.Errorf("focus_anatomy: missing objectId")
	}
	objectName := stringParam(params, "objectName", "object_name")

	d.logger.Info("Focusing camera on anatomy object",
		zap.String("objectID", objectID),
		zap.String("objectName", objectName))

	return Result{
		Success: true,
		CameraCommand: map[string]interface{}{
			"action": "camera.flyTo",
			"params": map[string]interface{}{
				"objectId": objectID,
			},
			"objectName": objectName,
		},
	}, nil
}
