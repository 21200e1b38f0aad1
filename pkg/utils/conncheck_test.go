package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"with port", "postgresql://user:pw@dbhost:6543/gpp", "dbhost:6543"},
		{"default port", "postgresql://user:pw@dbhost/gpp", "dbhost:5432"},
		{"no match", "mysql://user:pw@dbhost/gpp", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestExtractFromNatsURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"with port", "nats://localhost:4333", "localhost:4333"},
		{"default port", "nats://natshost", "natshost:4222"},
		{"with credentials", "nats://user:pw@natshost:4223", "natshost:4223"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromNatsURL(tt.url))
		})
	}
}
