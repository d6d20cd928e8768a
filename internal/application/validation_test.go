package application

import (
	"errors"
	"testing"

	"whiteboard/internal/domain"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "sourceID",
			value:     "1",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "sourceID",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "sourceID",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "allocated id", id: "12", wantErr: false},
		{name: "zero", id: "0", wantErr: true},
		{name: "edge id", id: "e1-2", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID("nodeID", tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantField string
	}{
		{
			name:  "factory shape defaults",
			value: domain.DefaultShapeDefaults(),
		},
		{
			name: "bad fill",
			value: domain.ShapeDefaults{
				Shape: domain.ShapeCircle, Fill: "blue", Stroke: "#000000", StrokeWidth: 2,
			},
			wantField: "Fill",
		},
		{
			name: "stroke too wide",
			value: domain.ShapeDefaults{
				Shape: domain.ShapeCircle, Fill: "#fff", Stroke: "#000000", StrokeWidth: 12,
			},
			wantField: "StrokeWidth",
		},
		{
			name:      "unknown routing",
			value:     domain.EdgeDefaults{Routing: "zigzag"},
			wantField: "Routing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.value)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %T (%v)", err, err)
			}
			if valErr.Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, valErr.Field)
			}
		})
	}
}
