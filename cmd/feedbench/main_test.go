package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadOptions_RequiresConfirm(t *testing.T) {
	_, err := loadOptions(envOf(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEEDBENCH_CONFIRM=yes")

	_, err = loadOptions(envOf(map[string]string{"FEEDBENCH_CONFIRM": "1"}))
	assert.Error(t, err)
}

func TestLoadOptions(t *testing.T) {
	opts, err := loadOptions(envOf(map[string]string{"FEEDBENCH_CONFIRM": "yes"}))
	require.NoError(t, err)
	assert.Equal(t, benchOptions{authors: 200, posts: 20000, requests: 5000, redisDB: 15}, opts)

	opts, err = loadOptions(envOf(map[string]string{
		"FEEDBENCH_CONFIRM":  "yes",
		"FEEDBENCH_REDIS_DB": "3",
		"POSTS":              "50",
		"AUTHORS":            "-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, opts.redisDB)
	assert.Equal(t, 50, opts.posts)
	assert.Equal(t, 200, opts.authors)

	_, err = loadOptions(envOf(map[string]string{"FEEDBENCH_CONFIRM": "yes", "FEEDBENCH_REDIS_DB": "x"}))
	assert.Error(t, err)
}

func TestParseRedisMemory(t *testing.T) {
	info := "# Memory\r\nused_memory:1048576\r\nused_memory_human:1.00M\r\n"
	assert.EqualValues(t, 1048576, parseRedisMemory(info))
	assert.Zero(t, parseRedisMemory("# Memory\r\n"))
	assert.Equal(t, "1.0 MB", formatBytes(1048576))
}
