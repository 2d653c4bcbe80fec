package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsBin(t *testing.T) {
	assert.Equal(t, DefaultCLI, New("").Bin)
	assert.Equal(t, "/opt/hf", New("/opt/hf").Bin)
}

func TestLoginCommand(t *testing.T) {
	cmd := New("").LoginCommand("hf_token123")

	assert.Equal(t, "huggingface-cli", cmd.Name)
	assert.Equal(t, []string{"login", "--token", "hf_token123", "--add-to-git-credential"}, cmd.Args)
	assert.Equal(t, "huggingface-cli login --token *** --add-to-git-credential", cmd.String())
}

func TestDownloadCommand(t *testing.T) {
	cmd := New("").DownloadCommand("joshswift/phobert-span", "models/span")

	assert.Equal(t,
		"huggingface-cli download joshswift/phobert-span --local-dir models/span --local-dir-use-symlinks False",
		cmd.String())
}

func TestValidateRepoID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"joshswift/bartpho-rewriter", false},
		{"gpt2", false},
		{"", true},
		{"a b/c", true},
		{"a/b/c", true},
		{"/name", true},
		{"owner/", true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateRepoID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepoID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
