package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/artifact"
	"github.com/entrhq/pagekit/pkg/report"
)

func TestSummaryListener(t *testing.T) {
	dir := t.TempDir()
	summary := report.NewSummaryListener(artifact.NewStore(dir, true))
	b, d := newSession(t, summary)

	runSession(t, b)

	s := summary.Summary()
	assert.Equal(t, d.SessionID(), s.Session)
	assert.Equal(t, epoch, s.StartTime)
	assert.Equal(t, []string{"http://app/login", "http://app/other"}, s.Navigations)
	require.Len(t, s.Inits, 3)
	assert.Equal(t, report.InitResult{
		Label:   "LoginPage",
		Subject: "*report_test.LoginPage",
		Status:  report.StatusVerified,
		URL:     "http://app/login",
	}, s.Inits[0])
	assert.Equal(t, "Banner", s.Inits[1].Label)
	assert.Empty(t, s.Inits[1].URL)
	assert.Equal(t, report.StatusFailed, s.Inits[2].Status)
	assert.Contains(t, s.Inits[2].Error, "does not match")
	assert.True(t, s.Failed())

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)
	var decoded report.Summary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s.Inits, decoded.Inits)

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "❌ **Failed**")
	assert.Contains(t, string(md), "✅ **LoginPage** (`*report_test.LoginPage`) in 0s at http://app/login")
	assert.Contains(t, string(md), "- http://app/other")
}
