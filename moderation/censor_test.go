package moderation

import (
	"testing"

	"chat-hub/errors"

	"github.com/stretchr/testify/require"
)

func TestCensor_MasksForbiddenWords(t *testing.T) {
	req := require.New(t)
	censor, err := NewCensor([]string{"secret"}, '*')
	req.NoError(err)

	req.Equal("this is ****** stuff", censor.Apply("this is secret stuff"))
	req.Equal("nothing to see", censor.Apply("nothing to see"))
}

func TestCensor_IgnoresCaseAndPunctuation(t *testing.T) {
	req := require.New(t)
	censor, err := NewCensor([]string{"secret"}, '*')
	req.NoError(err)

	req.Equal("******", censor.Apply("SeCrEt"))
	// Punctuation inside the word does not hide it.
	req.Equal("********", censor.Apply("se.cr-et"))
}

func TestCensor_EmptyWordListRejected(t *testing.T) {
	_, err := NewCensor(nil, '*')
	require.ErrorIs(t, err, errors.ErrEmptyWords)
}
