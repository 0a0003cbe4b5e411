package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeJSON(t *testing.T) {
	ts := NewTime(time.UnixMilli(1718208000000))
	b, err := json.Marshal(ts)
	assert.NoError(t, err)
	assert.Equal(t, "1718208000000", string(b))

	var parsed Time
	assert.NoError(t, json.Unmarshal(b, &parsed))
	assert.True(t, ts.Equal(parsed))
}

func TestTimeZero(t *testing.T) {
	b, err := json.Marshal(Time{})
	assert.NoError(t, err)
	assert.Equal(t, "0", string(b))
}
