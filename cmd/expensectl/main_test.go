package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"orders", "expire"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	down, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	assert.NotNil(t, down.Flags().Lookup("yes"))
	assert.Equal(t, "1", down.Flags().Lookup("steps").DefValue)
}

func TestInvalidFlagsRejectedBeforeConnecting(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"migrate", "down", "--steps=0", "--yes"}, "--steps must be positive"},
		{[]string{"orders", "expire", "--older-than=-1h"}, "--older-than must be positive"},
	}

	for _, tt := range tests {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(tt.args)

		err := root.Execute()
		require.Error(t, err, tt.args)
		assert.Contains(t, err.Error(), tt.wantErr)
	}
}
