package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBinary_Score_Relevant(t *testing.T) {
	client := new(mockClaudeClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("RELEVANT: The inspection found leftover food containers."), nil)

	b := NewBinary(client, "test-model")
	cand, usage, err := b.Score(context.Background(), testQuery, testSegment)
	require.NoError(t, err)

	assert.Equal(t, 10, cand.Score)
	assert.Equal(t, "The inspection found leftover food containers.", cand.Statement)
	assert.Equal(t, 100, usage.InputTokens)
	client.AssertExpectations(t)
}

func TestBinary_Score_NotRelevant(t *testing.T) {
	client := new(mockClaudeClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("NOT RELEVANT"), nil)

	b := NewBinary(client, "test-model")
	cand, _, err := b.Score(context.Background(), testQuery, testSegment)
	require.NoError(t, err)

	assert.Equal(t, 0, cand.Score)
	assert.Equal(t, NoInformation, cand.Statement)
}

// "NOT RELEVANT" must win over its "RELEVANT" suffix.
func TestBinary_Score_NotRelevantPrefixPrecedence(t *testing.T) {
	client := new(mockClaudeClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("NOT RELEVANT: the section discusses something else entirely"), nil)

	b := NewBinary(client, "test-model")
	cand, _, err := b.Score(context.Background(), testQuery, testSegment)
	require.NoError(t, err)
	assert.Equal(t, 0, cand.Score)
}

func TestBinary_Score_RelevantWithoutStatement(t *testing.T) {
	client := new(mockClaudeClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("RELEVANT:"), nil)

	b := NewBinary(client, "test-model")
	cand, _, err := b.Score(context.Background(), testQuery, testSegment)
	require.NoError(t, err)

	// A relevant verdict with no statement carries nothing selectable.
	assert.Equal(t, 10, cand.Score)
	assert.Equal(t, NoInformation, cand.Statement)
}

func TestBinary_Score_UnrecognizedFailsClosed(t *testing.T) {
	client := new(mockClaudeClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("Maybe? It depends on interpretation."), nil)

	b := NewBinary(client, "test-model")
	cand, _, err := b.Score(context.Background(), testQuery, testSegment)
	require.NoError(t, err)
	assert.Equal(t, 0, cand.Score)
	assert.Equal(t, NoInformation, cand.Statement)
}

func TestBinary_Score_TransportError(t *testing.T) {
	client := new(mockClaudeClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))

	b := NewBinary(client, "test-model")
	_, _, err := b.Score(context.Background(), testQuery, testSegment)

	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "score", invErr.Stage)
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel(""))
	assert.True(t, IsSentinel("  "))
	assert.True(t, IsSentinel("NO INFORMATION"))
	assert.True(t, IsSentinel("no information"))
	assert.True(t, IsSentinel(" Analysis Error "))
	assert.False(t, IsSentinel("The machine transmits material."))
	assert.False(t, IsSentinel("NO INFORMATION about the second question."))
}
