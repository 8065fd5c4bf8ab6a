package date

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestOfDropsClock(t *testing.T) {
	t.Parallel()

	d := Of(time.Date(2026, time.March, 4, 17, 45, 3, 0, time.UTC))
	assert.Equal(t, "2026-03-04", d.String())
	assert.Equal(t, "04/03/2026", d.Display())
}

func TestDisplayZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "--", Date{}.Display())
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Parse("04/03/2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
}

func TestYAMLFieldRoundTrip(t *testing.T) {
	t.Parallel()

	type holder struct {
		When Date `yaml:"when"`
	}
	out, err := yaml.Marshal(holder{When: New(2025, time.December, 31)})
	require.NoError(t, err)
	assert.Contains(t, string(out), "2025-12-31")

	var back holder
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, back.When.Equal(New(2025, time.December, 31).Time))
}
