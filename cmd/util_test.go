package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studtrack/studtrack-cli/config"
	sterrors "github.com/studtrack/studtrack-cli/pkg/errors"
)

// fixtureDocument is a two-meeting batch (one online, one offline) used
// across the command tests.
const fixtureDocument = `{
  "meetings": [
    {
      "meeting_id": "m1",
      "title": "Sprint Planning",
      "date": "2026-03-02",
      "type": "online",
      "participants": [
        {
          "name": "Alice",
          "sessions": [
            {"join": "2026-03-02 10:00:00", "leave": "2026-03-02 10:45:00"}
          ]
        },
        {
          "name": "Bob",
          "sessions": [
            {"join": "2026-03-02 10:05:00", "leave": "2026-03-02 10:35:00"}
          ]
        }
      ],
      "chats": [
        {"timestamp": "2026-03-02 10:10:00", "sender": "Alice", "message": "agenda is up"},
        {"timestamp": "2026-03-02 10:11:00", "sender": "Bob", "message": "buy now"},
        {"timestamp": "2026-03-02 10:11:05", "sender": "Bob", "message": "buy now"},
        {"timestamp": "2026-03-02 10:11:10", "sender": "Bob", "message": "buy now"}
      ]
    },
    {
      "meeting_id": "m2",
      "title": "Workshop",
      "date": "2026-03-03",
      "type": "offline",
      "location": "Room 4",
      "participants": [
        {
          "name": "Alice",
          "attendance": {
            "status": "present",
            "check_in": "2026-03-03 09:00:00",
            "check_out": "2026-03-03 11:00:00"
          }
        },
        {
          "name": "Carol",
          "attendance": {
            "status": "late",
            "check_in": "2026-03-03 09:20:00",
            "check_out": "2026-03-03 11:00:00",
            "late_by_minutes": 20
          }
        },
        {
          "name": "Dave",
          "attendance": {"status": "absent"}
        }
      ],
      "activities": [
        {"timestamp": "2026-03-03 09:30:00", "participant": "Alice", "activity": "whiteboarding"},
        {"timestamp": "2026-03-03 09:45:00", "participant": "Alice", "activity": "whiteboarding"},
        {"timestamp": "2026-03-03 10:00:00", "participant": "Carol", "activity": "note taking"}
      ]
    }
  ]
}`

// writeFixture writes the shared fixture document to a temp file and returns
// its path.
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meetings.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureDocument), 0o644))
	return path
}

// testDeps returns fully populated dependencies that never touch the user's
// real config file.
func testDeps() *Deps {
	return &Deps{Config: config.DefaultConfig()}
}

func TestLoadBatch(t *testing.T) {
	deps := testDeps()
	require.NoError(t, deps.ensure())

	batch, err := loadBatch(deps, writeFixture(t))
	require.NoError(t, err)

	require.Len(t, batch.Meetings, 2)
	assert.NotNil(t, batch.ByID("m1"))
	assert.NotNil(t, batch.ByID("m2"))
}

func TestLoadBatch_MissingFile(t *testing.T) {
	deps := testDeps()
	require.NoError(t, deps.ensure())

	_, err := loadBatch(deps, filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, sterrors.IsIO(err), "missing input should surface as an IO error")
}

func TestLoadBatch_MalformedAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.json")
	doc := `{"meetings": [{"meeting_id": "m1", "title": "T", "date": "d", "type": "weird", "participants": []}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	deps := testDeps()
	require.NoError(t, deps.ensure())

	_, err := loadBatch(deps, path)
	require.Error(t, err)
	assert.True(t, sterrors.IsParse(err))
}

func TestLoadBatch_SkipInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.json")
	doc := `{"meetings": [
	  {"meeting_id": "m1", "title": "T", "date": "d", "type": "weird", "participants": []},
	  {"meeting_id": "m2", "title": "U", "date": "d", "type": "online", "participants": []}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	deps := testDeps()
	deps.Config.SkipInvalid = true
	require.NoError(t, deps.ensure())

	batch, err := loadBatch(deps, path)
	require.NoError(t, err)
	require.Len(t, batch.Meetings, 1)
	assert.Equal(t, "m2", batch.Meetings[0].ID)
}

func TestRenderStructured_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderStructured(&buf, config.OutputFormatJSON, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a": 1}`, buf.String())
}

func TestRenderStructured_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderStructured(&buf, config.OutputFormatYAML, map[string]int{"a": 1}))
	assert.Contains(t, buf.String(), "a: 1")
}

func TestRenderStructured_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	err := renderStructured(&buf, config.OutputFormat("xml"), nil)
	require.Error(t, err)
}

func TestSortedKeys(t *testing.T) {
	keys := sortedKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}
