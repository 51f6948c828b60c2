package devices

import (
	"strings"
	"testing"

	"github.com/neilthomass/instaPFP/models"
)

func TestLookup_DefaultPreset(t *testing.T) {
	d, err := Lookup(Default)
	if err != nil {
		t.Fatalf("default preset must resolve: %v", err)
	}
	if d.Title != "iPhone 12 Pro" {
		t.Errorf("got %q", d.Title)
	}
	if !strings.Contains(d.UserAgent, "iPhone") {
		t.Errorf("default preset should carry a mobile user-agent, got %q", d.UserAgent)
	}
}

func TestLookup_NormalizesNames(t *testing.T) {
	for _, name := range []string{"iPhone 12 Pro", "IPHONE_12_PRO", " iphone-12-pro "} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q) = %v, want match", name, err)
		}
	}
}

func TestLookup_UnknownDevice(t *testing.T) {
	_, err := Lookup("nokia-3310")
	if err == nil {
		t.Fatal("expected an error for an unknown preset")
	}
	if models.CodeOf(err) != models.ErrCodeInvalidInput {
		t.Errorf("expected %s, got %s", models.ErrCodeInvalidInput, models.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "nokia-3310") {
		t.Errorf("error should name the requested device: %v", err)
	}
	if !strings.Contains(err.Error(), "iphone-12-pro") {
		t.Errorf("error should list the known presets: %v", err)
	}
}

func TestNames_SortedAndComplete(t *testing.T) {
	names := Names()
	if len(names) != len(presets) {
		t.Fatalf("Names() returned %d entries, presets has %d", len(names), len(presets))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
