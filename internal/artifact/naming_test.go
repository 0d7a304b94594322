package artifact_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/artifact"
)

func TestFileName(t *testing.T) {
	require.Equal(t, "gpt-4_1_argument.md", artifact.FileName("gpt-4", 1, "argument", "md"))
	require.Equal(t, "claude_2_contribution.json", artifact.FileName("claude", 2, "contribution", "json"))
}

func TestModelSlugFromFileName(t *testing.T) {
	require.Equal(t, "gpt-4", artifact.ModelSlugFromFileName("gpt-4_1_argument.md"))
	require.Equal(t, "claude", artifact.ModelSlugFromFileName("some/dir/claude_3_summary.txt"))
	require.Equal(t, "", artifact.ModelSlugFromFileName("plain.md"))
	require.Equal(t, "", artifact.ModelSlugFromFileName("only_one.md"))
}

func TestMatchesDocumentKey(t *testing.T) {
	require.True(t, artifact.MatchesDocumentKey("gpt-4_1_argument.md", "argument"))
	require.True(t, artifact.MatchesDocumentKey("a/b/claude_2_rebuttal.json", "rebuttal"))
	require.False(t, artifact.MatchesDocumentKey("gpt-4_1_argument.md", "rebuttal"))
	require.False(t, artifact.MatchesDocumentKey("gpt-4_1_argument.md", ""))
	require.False(t, artifact.MatchesDocumentKey("plain.md", "argument"))
}
