package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envSample struct {
	Section struct {
		Name     string        `env:"SAMPLE_NAME"`
		Count    int32         `env:"SAMPLE_COUNT"`
		Enabled  bool          `env:"SAMPLE_ENABLED"`
		Wait     time.Duration `env:"SAMPLE_WAIT"`
		Untagged string
	}
	Ratio float64 `env:"SAMPLE_RATIO"`
}

func TestApplyEnvOverrides_ParsesKinds(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "  padded ")
	t.Setenv("SAMPLE_COUNT", " 42 ")
	t.Setenv("SAMPLE_ENABLED", "true")
	t.Setenv("SAMPLE_WAIT", "90s")

	var s envSample
	s.Section.Untagged = "kept"
	require.NoError(t, applyEnvOverrides(&s))

	assert.Equal(t, "  padded ", s.Section.Name)
	assert.Equal(t, int32(42), s.Section.Count)
	assert.True(t, s.Section.Enabled)
	assert.Equal(t, 90*time.Second, s.Section.Wait)
	assert.Equal(t, "kept", s.Section.Untagged)
}

func TestApplyEnvOverrides_Errors(t *testing.T) {
	t.Run("int overflow", func(t *testing.T) {
		t.Setenv("SAMPLE_COUNT", "9999999999")
		err := applyEnvOverrides(&envSample{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SAMPLE_COUNT")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("SAMPLE_WAIT", "later")
		err := applyEnvOverrides(&envSample{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid duration format")
	})

	t.Run("unsupported kind", func(t *testing.T) {
		t.Setenv("SAMPLE_RATIO", "0.5")
		err := applyEnvOverrides(&envSample{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported field type: float64")
	})
}

func TestApplyEnvOverrides_IgnoresNonStruct(t *testing.T) {
	n := 3
	assert.NoError(t, applyEnvOverrides(&n))
}
