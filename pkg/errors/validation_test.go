package errors

import (
	"strings"
	"testing"
)

func TestValidatePersonID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid simple id", id: "stark-eddard", wantErr: false},
		{name: "valid uuid", id: "7b6f4a1e-2c3d-4e5f-8a9b-0c1d2e3f4a5b", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "too long", id: strings.Repeat("a", 129), wantErr: true},
		{name: "max length ok", id: strings.Repeat("a", 128), wantErr: false},
		{name: "whitespace", id: "eddard stark", wantErr: true},
		{name: "control character", id: "eddard\x01", wantErr: true},
		{name: "forward slash", id: "house/stark", wantErr: true},
		{name: "backslash", id: "house\\stark", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePersonID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePersonID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidPerson {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidPerson)
			}
		})
	}
}

func TestValidateDatasetPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid relative path", path: "data/lineage.yaml", wantErr: false},
		{name: "valid absolute path", path: "/var/lib/lineageweaver/lineage.json", wantErr: false},
		{name: "empty", path: "", wantErr: true},
		{name: "too long", path: strings.Repeat("a", 501), wantErr: true},
		{name: "traversal", path: "../../etc/passwd", wantErr: true},
		{name: "null byte", path: "data\x00.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatasetPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDatasetPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidPath {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
