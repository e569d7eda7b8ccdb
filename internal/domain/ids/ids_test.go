package ids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testULID = "01HYX3KQW7ERTV9XNBM2P8QJZF"

func TestNewEventIDReturnsValid(t *testing.T) {
	value, err := NewEventID()

	require.NoError(t, err)
	require.NoError(t, ValidateULID(value))
}

func TestIsULIDAndValidateULID(t *testing.T) {
	require.True(t, IsULID(testULID))
	require.True(t, IsULID(" "+testULID+" "))
	require.NoError(t, ValidateULID(testULID))

	require.False(t, IsULID("not-a-ulid"))
	require.ErrorIs(t, ValidateULID("not-a-ulid"), ErrInvalidULID)
}

func TestNewRegistrationIDReturnsValid(t *testing.T) {
	value := NewRegistrationID()

	require.NoError(t, ValidateUUID(value))
}

func TestValidateUUID(t *testing.T) {
	require.NoError(t, ValidateUUID(" 1f4c7c1e-8a5f-4f7e-9a43-0db6c8a2f0d1 "))
	require.ErrorIs(t, ValidateUUID("nope"), ErrInvalidUUID)
	require.ErrorIs(t, ValidateUUID(""), ErrInvalidUUID)
}
