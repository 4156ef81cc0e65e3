package config

import "testing"

func TestLoadConfigCachesDefaults(t *testing.T) {
	// no pdc_config.json exists in the test directory
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultStatus != "Rascunho" {
		t.Errorf("DefaultStatus = %q, want Rascunho", cfg.DefaultStatus)
	}
	if got := GetConfig().DefaultStatus; got != "Rascunho" {
		t.Errorf("GetConfig().DefaultStatus = %q, want the loaded default", got)
	}
}
