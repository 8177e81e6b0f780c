package loans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labloan-backend/internal/platform/db"
)

func TestLabMapAllowedLab(t *testing.T) {
	m := NewLabMap(map[string]string{
		"Sains Data Terapan": " Lab Komputer Sains Data ",
		"Teknik Informatika": "Lab Pemrograman",
	})
	assert.Equal(t, 2, m.Len())

	tests := []struct {
		program string
		lab     string
		ok      bool
	}{
		{"Sains Data Terapan", "Lab Komputer Sains Data", true},
		{"  sains data TERAPAN ", "Lab Komputer Sains Data", true},
		{"Sains  Data\tTerapan", "Lab Komputer Sains Data", true},
		{"Teknik Informatika", "Lab Pemrograman", true},
		{"Teknik Sipil", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.program, func(t *testing.T) {
			lab, ok := m.AllowedLab(tt.program)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lab, lab)
		})
	}
}

func TestLabMapUnicodeComposition(t *testing.T) {
	// precomposed vs combining acute accent
	m := NewLabMap(map[string]string{"Ingeni\u00e9ria": "Lab A"})
	lab, ok := m.AllowedLab("Ingenie\u0301ria")
	assert.True(t, ok)
	assert.Equal(t, "Lab A", lab)
}

func TestExampleConfigLabs(t *testing.T) {
	cfg, err := db.LoadConfig("../../config/config.example.yaml")
	require.NoError(t, err)

	m := NewLabMap(cfg.Labs)
	assert.Equal(t, 3, m.Len())
	for program, want := range map[string]string{
		"Sains Data Terapan":      "Lab Komputer Sains Data",
		"Rekayasa Keamanan Siber": "Lab Komputer Rekayasa Keamanan Siber",
		"AI dan Robotik":          "Lab AI & Robotik",
	} {
		lab, ok := m.AllowedLab(program)
		assert.True(t, ok, program)
		assert.Equal(t, want, lab, program)
	}
}
