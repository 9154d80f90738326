package sysex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionPartCount(t *testing.T) {
	assert.Equal(t, uint8(1), Section{ParameterCount: 1}.partCount())
	assert.Equal(t, uint8(1), Section{ParameterCount: 32}.partCount())
	assert.Equal(t, uint8(2), Section{ParameterCount: 33}.partCount())
	assert.Equal(t, uint8(4), Section{ParameterCount: 128}.partCount())
}

func TestSectionValidateRejectsEmptyAndInverted(t *testing.T) {
	err := Section{ParameterCount: 0}.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSection)

	err = Section{ParameterCount: 4, ValueMin: 10, ValueMax: 1}.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSection)
}

func TestNewLayoutQueries(t *testing.T) {
	l, err := newLayout([]Block{
		{Sections: []Section{
			{ParameterCount: 40, ValueMin: 0, ValueMax: 127},
			{ParameterCount: 1, ValueMin: 0, ValueMax: 1},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, l.blockCount())
	assert.Equal(t, 2, l.sectionCount(0))
	assert.Equal(t, 0, l.sectionCount(5))

	sec, ok := l.section(0, 0)
	require.True(t, ok)
	assert.Equal(t, uint16(40), sec.ParameterCount)
	assert.Equal(t, uint8(2), l.partCount(0, 0))

	min, max := l.valueRange(0, 1)
	assert.Equal(t, uint16(0), min)
	assert.Equal(t, uint16(1), max)

	_, ok = l.section(0, 9)
	assert.False(t, ok)
}

func TestNewLayoutPropagatesSectionError(t *testing.T) {
	_, err := newLayout([]Block{
		{Sections: []Section{{ParameterCount: 0}}},
	})
	assert.Error(t, err)
}
