package debug

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"keyframe/maths"
	"keyframe/track"
)

// sampleRecord 削减一条折线并记录过程
func sampleRecord(t *testing.T) *Record {
	t.Helper()
	c := track.NewChannel[r3.Vec]("position", 0)
	for f := 0; f <= 8; f++ {
		y := float64(f)
		if f > 4 {
			y = 8 - float64(f)
		}
		c.Append(r3.Vec{X: float64(f), Y: y})
	}
	r := NewRecord(c.Name)
	k, err := track.Reduce(c, maths.Vector3{}, 0.01, r)
	require.NoError(t, err)
	Capture(r, c, k, maths.Vector3{})
	return r
}

func TestRecord(t *testing.T) {
	r := sampleRecord(t)
	assert.Equal(t, []int{0, 4, 8}, r.Retained)
	assert.Equal(t, []int{6, 0}, r.Removed)
	assert.Equal(t, 2, r.Passes())
	assert.Equal(t, 3, r.Width())
	assert.Len(t, r.Dense, 9)
	assert.Equal(t, []float64{4, 4, 0}, r.Values[1])

	removed := 0
	for _, e := range r.Evaluations {
		if e.Removed {
			removed++
			assert.Less(t, e.Deviation, 0.01)
		}
	}
	assert.Equal(t, 6, removed)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	var decoded Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.Retained, decoded.Retained)
	assert.Equal(t, len(r.Evaluations), len(decoded.Evaluations))
}

func TestCharts(t *testing.T) {
	c := &Charts{Title: "削减", Records: []*Record{sampleRecord(t), NewRecord("empty")}}
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "position")

	rec := httptest.NewRecorder()
	c.Handler(rec, httptest.NewRequest("GET", "/", nil))
	assert.Contains(t, rec.Body.String(), "position")
}

func TestPlot(t *testing.T) {
	r := sampleRecord(t)

	var buf bytes.Buffer
	require.NoError(t, WritePlot(&buf, r, "svg"))
	assert.Contains(t, buf.String(), "<svg")
	assert.Error(t, WritePlot(&buf, r, "bmp"))

	path := filepath.Join(t.TempDir(), "position.png")
	require.NoError(t, SavePlot(path, r))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
