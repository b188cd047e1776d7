package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigArgs(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{nil, nil},
		{[]string{"serve"}, nil},
		{[]string{"-c", "prod.yml", "serve"}, []string{"-c", "prod.yml"}},
		{[]string{"serve", "--config", "prod.yml"}, []string{"-c", "prod.yml"}},
		{[]string{"serve", "-c=prod.yml"}, []string{"-c=prod.yml"}},
		{[]string{"eval", "x", "--config=prod.yml"}, []string{"-c=prod.yml"}},
		{[]string{"serve", "-c"}, nil},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, configArgs(tt.args), tt.args)
	}
}
