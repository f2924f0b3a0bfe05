package flagx

import (
	"reflect"
	"testing"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", ":8080", "-x", "junk"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":8080"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-d=dsn"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "flag without value",
			args:    []string{"-a", "-d", "dsn"},
			allowed: []string{"-a", "-d"},
			want:    []string{"-a", "-d", "dsn"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":8080"},
			allowed: []string{},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterArgs(%v, %v) = %v, want %v", tt.args, tt.allowed, got, tt.want)
			}
		})
	}
}
