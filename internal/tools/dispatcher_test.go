package tools

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/satori-health/meridia/domain/entities"
)

func TestDispatcher_CanHandle(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	tests := []struct {
		operation string
		want      bool
	}{
		{"navigate_to_viewpoint", true},
		{"focus_anatomy", true},
		{"show_front_view", true},
		{"show_back_view", true},
		{"order_pizza", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			if got := d.CanHandle(tt.operation); got != tt.want {
				t.Errorf("CanHandle(%q) = %v, want %v", tt.operation, got, tt.want)
			}
		})
	}
}

func TestDispatcher_NavigateToViewpoint(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	// Both parameter spellings the generator is known to emit.
	for name, params := range map[string]map[string]interface{}{
		"viewpoint":    {"viewpoint": "left_shoulder"},
		"viewpoint_id": {"viewpoint_id": "left_shoulder"},
	} {
		t.Run(name, func(t *testing.T) {
			result, err := d.Execute(context.Background(), entities.ToolAction{
				Operation:  "navigate_to_viewpoint",
				Parameters: params,
			})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !result.Success {
				t.Error("result not marked successful")
			}
			if result.CameraCommand["action"] != "camera.set" {
				t.Errorf("action = %v, want camera.set", result.CameraCommand["action"])
			}
		})
	}
}

func TestDispatcher_NavigateUnknownViewpoint(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	_, err := d.Execute(context.Background(), entities.ToolAction{
		Operation:  "navigate_to_viewpoint",
		Parameters: map[string]interface{}{"viewpoint_id": "tailbone"},
	})
	if err == nil {
		t.Error("Execute() succeeded for unknown viewpoint")
	}
}

func TestDispatcher_FocusAnatomy(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	for name, actionParams := range map[string]map[string]interface{}{
		"camelCase": {
			"objectId":   "muscular_system-right_trapezius_ID",
			"objectName": "Right trapezius",
		},
		"snake_case": {
			"object_id":   "muscular_system-right_trapezius_ID",
			"object_name": "Right trapezius",
		},
	} {
		t.Run(name, func(t *testing.T) {
			result, err := d.Execute(context.Background(), entities.ToolAction{
				Operation:  "focus_anatomy",
				Parameters: actionParams,
			})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if result.CameraCommand["action"] != "camera.flyTo" {
				t.Errorf("action = %v, want camera.flyTo", result.CameraCommand["action"])
			}
			params, _ := result.CameraCommand["params"].(map[string]interface{})
			if params["objectId"] != "muscular_system-right_trapezius_ID" {
				t.Errorf("objectId = %v, want the requested object", params["objectId"])
			}
		})
	}
}

func TestDispatcher_FocusRequiresObjectID(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	_, err := d.Execute(context.Background(), entities.ToolAction{
		Operation:  "focus_anatomy",
		Parameters: map[string]interface{}{"object_name": "spleen"},
	})
	if err == nil {
		t.Error("Execute() succeeded without object_id")
	}
}

func TestDispatcher_FrontAndBackViews(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	for _, op := range []string{"show_front_view", "show_back_view"} {
		result, err := d.Execute(context.Background(), entities.ToolAction{Operation: op})
		if err != nil {
			t.Fatalf("Execute(%s) error = %v", op, err)
		}
		if result.CameraCommand == nil {
			t.Errorf("Execute(%s) returned no camera command", op)
		}
	}
}
