package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTargets(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		backend  string
		expected []string
	}{
		{"postgres backend", "", "postgres", []string{"postgres"}},
		{"memory backend", "", "memory", []string{"postgres"}},
		{"scylla backend", "", "scylladb", []string{"postgres", "scylladb"}},
		{"mongo backend", "", "mongo", []string{"postgres", "mongo"}},
		{"explicit list", " mongo, ,scylladb ", "postgres", []string{"mongo", "scylladb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveTargets(tt.flag, tt.backend))
		})
	}
}
