package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureKind_String(t *testing.T) {
	tests := []struct {
		kind FailureKind
		want string
	}{
		{KindNone, "None"},
		{KindHTTPError, "HTTPError"},
		{KindTimeout, "Timeout"},
		{KindConnectionError, "ConnectionError"},
		{KindOther, "Other"},
		{FailureKind(99), "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestFailure(t *testing.T) {
	o := Failure(KindTimeout, "read timed out")
	assert.False(t, o.OK())
	assert.Equal(t, KindTimeout, o.Kind)
	assert.Equal(t, "read timed out", o.Message)

	// a failure is never classified as success
	o = Failure(KindNone, "")
	assert.False(t, o.OK())
	assert.Equal(t, KindOther, o.Kind)
	assert.Equal(t, "Other", o.Message)

	assert.True(t, Success().OK())
}

func TestDedupEntries(t *testing.T) {
	in := []LedgerEntry{
		{Filename: "a.xml", Error: "first"},
		{Filename: "b.xml", Error: "b"},
		{Filename: "a.xml", Error: "second"},
	}

	got := DedupEntries(in)

	assert.Equal(t, []LedgerEntry{
		{Filename: "a.xml", Error: "second"},
		{Filename: "b.xml", Error: "b"},
	}, got)
}

func TestProgress(t *testing.T) {
	p := NewProgress(3)
	assert.Equal(t, Progress{Total: 3}, p)
	assert.False(t, p.Complete())

	p.Attempted, p.Succeeded = 3, 2
	assert.Equal(t, 1, p.Failed())
	assert.Equal(t, "Loaded: 2 out of 3", p.Tally())
	assert.Equal(t, "1 failed loads out of 3, retry to load them again", p.Summary())

	p.Succeeded = 3
	assert.True(t, p.Complete())
	assert.Equal(t, "All 3 documents are loaded", p.Summary())

	empty := NewProgress(0)
	assert.True(t, empty.Complete())
}
