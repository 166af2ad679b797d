package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-fetch-driver/internal/driver"
	"mcp-fetch-driver/internal/session"
	"mcp-fetch-driver/pkg/mcp/protocol"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "history", "driver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	openTestJournal(t)
}

func TestRecordRun(t *testing.T) {
	j := openTestJournal(t)

	outcomes := []driver.Outcome{
		{
			Index:    1,
			Scenario: driver.Scenario{Name: "Static HTML Test", URL: "https://httpbin.org/html"},
			Kind:     driver.OutcomeSuccess,
			Fetch:    &driver.FetchReport{Method: "static"},
			Elapsed:  250 * time.Millisecond,
		},
		{
			Index:    2,
			Scenario: driver.Scenario{Name: "bad url", URL: "not-a-url"},
			Kind:     driver.OutcomeAPIError,
			APIError: &protocol.JSONRPCError{Code: -32602, Message: "invalid url"},
			Elapsed:  10 * time.Millisecond,
		},
		{
			Index:    3,
			Scenario: driver.Scenario{Name: "hung", URL: "https://hangs.example"},
			Kind:     driver.OutcomeTransportFailure,
			Failure:  &session.TimeoutError{Method: protocol.MethodToolsCall, Elapsed: 10 * time.Second},
			Elapsed:  10 * time.Second,
		},
	}

	started := time.Now()
	require.NoError(t, j.RecordRun("run-1", started, "html-mcp-reader mcp", outcomes))

	var passed, failed int
	require.NoError(t, j.db.QueryRow(`SELECT passed, failed FROM runs WHERE id = ?`, "run-1").Scan(&passed, &failed))
	assert.Equal(t, 1, passed)
	assert.Equal(t, 2, failed)

	var count int
	require.NoError(t, j.db.QueryRow(`SELECT COUNT(*) FROM outcomes WHERE run_id = ?`, "run-1").Scan(&count))
	assert.Equal(t, 3, count)

	var fetchMethod string
	require.NoError(t, j.db.QueryRow(`SELECT fetch_method FROM outcomes WHERE run_id = ? AND idx = 1`, "run-1").Scan(&fetchMethod))
	assert.Equal(t, "static", fetchMethod)

	var detail string
	require.NoError(t, j.db.QueryRow(`SELECT detail FROM outcomes WHERE run_id = ? AND idx = 3`, "run-1").Scan(&detail))
	assert.Contains(t, detail, "no response after")
}

func TestRecordRunDuplicateID(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.RecordRun("run-1", time.Now(), "cmd", nil))
	assert.Error(t, j.RecordRun("run-1", time.Now(), "cmd", nil), "run ids are primary keys")
}
