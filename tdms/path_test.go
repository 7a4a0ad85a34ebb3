package tdms

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		path    string
		want    []string
		wantErr bool
	}{
		{"/", []string{}, false},
		{"/'Group'", []string{"Group"}, false},
		{"/'Group'/'Channel'", []string{"Group", "Channel"}, false},
		{"/'it''s'", []string{"it's"}, false},
		{"/'a/b'/'c'", []string{"a/b", "c"}, false},
		{"/''", []string{""}, false},
		{"/'''q'''", []string{"'q'"}, false},
		{"/'a'/'b'/'c'", []string{"a", "b", "c"}, false}, // depth is checked by callers
		{"", nil, true},
		{"Group", nil, true},
		{"/Group", nil, true},
		{"/'open", nil, true},
		{"/'a'x", nil, true},
		{"/'a'/", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ParsePath(tt.path)
			if tt.wantErr {
				var ipe *InvalidPathError
				if !errors.As(err, &ipe) {
					t.Fatalf("ParsePath(%q) error = %v, want *InvalidPathError", tt.path, err)
				}
				if ipe.Offset != -1 {
					t.Errorf("Offset = %d, want -1", ipe.Offset)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q): %v", tt.path, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestBuildPath(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, "/"},
		{[]string{"Group"}, "/'Group'"},
		{[]string{"Group", "Channel"}, "/'Group'/'Channel'"},
		{[]string{"it's"}, "/'it''s'"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := BuildPath(tt.names...); got != tt.want {
				t.Errorf("BuildPath(%q) = %q, want %q", tt.names, got, tt.want)
			}
		})
	}

	if got := GroupPath("g"); got != "/'g'" {
		t.Errorf("GroupPath = %q", got)
	}
	if got := ChannelPath("g", "c'"); got != "/'g'/'c'''" {
		t.Errorf("ChannelPath = %q", got)
	}
}

func TestPathRoundTrip(t *testing.T) {
	for _, names := range [][]string{{"x"}, {"a'b", "/c/"}, {"", "''"}} {
		got, err := ParsePath(BuildPath(names...))
		if err != nil {
			t.Fatalf("%q: %v", names, err)
		}
		if !reflect.DeepEqual(got, names) {
			t.Errorf("round trip of %q gave %q", names, got)
		}
	}
}
