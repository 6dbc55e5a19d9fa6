package browser

import "testing"

func TestBlockPolicy(t *testing.T) {
	p := newBlockPolicy([]string{"Images", "fonts", "script"})

	cases := []struct {
		resType string
		want    bool
	}{
		{"Image", true},
		{"Font", true},
		{"Script", true}, // raw CDP type with no plural mapping
		{"Stylesheet", false},
		{"Media", false},
		{"Document", false},
		{"XHR", false},
	}
	for _, tc := range cases {
		if got := p.blocks(tc.resType); got != tc.want {
			t.Errorf("blocks(%q) = %v, want %v", tc.resType, got, tc.want)
		}
	}

	if newBlockPolicy(nil).blocks("Image") {
		t.Error("empty policy should block nothing")
	}
}

func TestConfigDefaults(t *testing.T) {
	m := NewManager(Config{})
	if m.cfg.NavigateTimeout <= 0 {
		t.Error("navigate timeout default not applied")
	}
	if m.cfg.Logger == nil {
		t.Error("logger default not applied")
	}
}
