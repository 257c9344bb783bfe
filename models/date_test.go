package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.March, 9), d)
	assert.Equal(t, "2024-03-09", d.String())

	for _, bad := range []string{"", "2024-3-9", "09/03/2024", "2024-02-30", "2024-03-09T10:00:00Z", " 2024-03-09"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2024, time.January, 1)
	b := NewDate(2024, time.January, 2)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
	assert.True(t, Date{}.IsZero())
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-05-01"))
	assert.Equal(t, "2024-05-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-05-02 00:00:00")))
	assert.Equal(t, "2024-05-02", d.String())

	require.NoError(t, d.Scan(time.Date(2024, time.May, 3, 23, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("not a date"))

	v, err := NewDate(2024, time.May, 4).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-04", v)
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{D: NewDate(2023, time.December, 31)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2023-12-31"}`, string(b))

	var out struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2023-12-30"}`), &out))
	assert.Equal(t, NewDate(2023, time.December, 30), out.D)
	assert.Error(t, json.Unmarshal([]byte(`{"d":"30-12-2023"}`), &out))
}

func TestRequestNormalize(t *testing.T) {
	r := RegisterRequest{Username: "  alice ", Email: " Alice@Example.COM ", Password: " pw "}
	r.Normalize()
	assert.Equal(t, "alice", r.Username)
	assert.Equal(t, "alice@example.com", r.Email)
	assert.Equal(t, " pw ", r.Password)

	l := LoginRequest{Email: "BOB@example.com "}
	l.Normalize()
	assert.Equal(t, "bob@example.com", l.Email)
}
