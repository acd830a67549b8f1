package providers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"success":true,"data":[{"id":1,"report_type":"vibe","report_data":{}}]}`))
		require.NoError(t, err)
		assert.True(t, env.Success)
		assert.Len(t, env.Data, 1)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"success":`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})

	t.Run("envelope is an array", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`[1,2,3]`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})

	t.Run("report is not an object", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"success":true,"data":[42]}`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})
}

func TestError(t *testing.T) {
	err := NewError(ErrNetworkFailure, "upstream says no")
	assert.Equal(t, "upstream says no", err.Error())
	assert.True(t, errors.Is(err, ErrNetworkFailure))
	assert.False(t, errors.Is(err, ErrNoData))

	assert.Equal(t, "no data", NewError(ErrNoData, "").Error())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "malformed_payload", Kind(NewError(ErrMalformedPayload, "x")))
	assert.Equal(t, "no_data", Kind(ErrNoData))
	assert.Equal(t, "network_failure", Kind(NewError(ErrNetworkFailure, "x")))
	assert.Equal(t, "network_failure", Kind(errors.New("dial tcp: refused")))
}

func TestDecodeEnvelope_NullBody(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`null`))
	require.Error(t, err)
	assert.Equal(t, "malformed_payload", Kind(err))
}
