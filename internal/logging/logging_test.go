package logging

import (
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Lvl
		wantErr bool
	}{
		{"debug", log.DEBUG, false},
		{"INFO", log.INFO, false},
		{"", log.INFO, false},
		{"warning", log.WARN, false},
		{"error", log.ERROR, false},
		{"off", log.OFF, false},
		{"verbose", log.INFO, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
