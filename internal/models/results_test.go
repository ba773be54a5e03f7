package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPerturbationTypes(t *testing.T) {
	types := AllPerturbationTypes()
	assert.Equal(t, []PerturbationType{
		PerturbTypo, PerturbExtraChar,
		PerturbSynonym, PerturbRemoveWord,
		PerturbRephrase, PerturbAddPrefix,
	}, types)
}

func TestLevelOf(t *testing.T) {
	level, ok := LevelOf(PerturbRemoveWord)
	require.True(t, ok)
	assert.Equal(t, LevelWord, level)

	_, ok = LevelOf("shuffle")
	assert.False(t, ok)
}

func TestParsePerturbationType(t *testing.T) {
	pt, err := ParsePerturbationType("add_prefix")
	require.NoError(t, err)
	assert.Equal(t, PerturbAddPrefix, pt)

	_, err = ParsePerturbationType("nope")
	assert.Error(t, err)
}

func TestLabelFlip(t *testing.T) {
	assert.Equal(t, LabelNormal, LabelFraud.Flip())
	assert.Equal(t, LabelFraud, LabelNormal.Flip())
	assert.Equal(t, "fraud", LabelFraud.String())
}

func TestTypesOfReturnsCopy(t *testing.T) {
	types := TypesOf(LevelCharacter)
	types[0] = "mutated"
	assert.Equal(t, PerturbTypo, TypesOf(LevelCharacter)[0])
}

func TestParseLabel(t *testing.T) {
	for in, want := range map[string]Label{"0": LabelNormal, "normal": LabelNormal, " Fraud ": LabelFraud, "1": LabelFraud} {
		got, err := ParseLabel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLabel("2")
	assert.Error(t, err)
}
