package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taaku18/timezone-bot/internal/domain"
)

func TestOpenJSON_CreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "timezones.json")
	_, err := OpenJSON(path)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestOpenJSON_RejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timezones.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": `), 0o644))

	_, err := OpenJSON(path)
	assert.Error(t, err)
}

func TestJSONRepo_ReadsExistingLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timezones.json")
	existing := `{
		"111": {"timezones": {"5": "america/new_york", "6": "asia/tokyo"}, "time_message": [222, 333]},
		"444": {"timezones": {}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	r, err := OpenJSON(path)
	require.NoError(t, err)
	ctx := context.Background()

	tzs, err := r.ListTimezones(ctx, 111)
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{5: "america/new_york", 6: "asia/tokyo"}, tzs)

	loc, err := r.GetTimeMessage(ctx, 111)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageLocation{GuildID: 111, ChannelID: 222, MessageID: 333}, loc)

	_, err = r.GetTimeMessage(ctx, 444)
	assert.ErrorIs(t, err, domain.ErrNotFound, "entry without time_message")
}

func TestJSONRepo_WritesExistingLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timezones.json")
	r, err := OpenJSON(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, r.SetTimezone(ctx, 111, 5, "europe/paris"))
	require.NoError(t, r.SetTimeMessage(ctx, domain.MessageLocation{GuildID: 111, ChannelID: 222, MessageID: 333}))
	require.NoError(t, r.SetTimezone(ctx, 444, 6, "utc"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"111": {"timezones": {"5": "europe/paris"}, "time_message": [222, 333]},
		"444": {"timezones": {"6": "utc"}}
	}`, string(b))

	// Clearing keeps the guild entry.
	require.NoError(t, r.RemoveTimezone(ctx, 444, 6))
	require.NoError(t, r.RemoveTimeMessage(ctx, 111))
	b, err = os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Contains(t, doc, "444")
	assert.NotContains(t, doc["111"], "time_message")
}

func TestJSONRepo_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	r, err := OpenJSON(filepath.Join(dir, "timezones.json"))
	require.NoError(t, err)
	for i := int64(0); i < 5; i++ {
		require.NoError(t, r.SetTimezone(context.Background(), 1, i, "utc"))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "timezones.json", entries[0].Name())
}
