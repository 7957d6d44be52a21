package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/poker-equity/internal/config"
	"github.com/lox/poker-equity/internal/deck"
)

func TestParsePlayers(t *testing.T) {
	cfg := &config.Config{
		Ranges: []config.NamedRange{{Name: "premium", Hands: "QQ+,AKs"}},
	}

	players, err := parsePlayers([]string{"AcKd", "Ah", "random", "TT+", "@premium"}, cfg)
	require.NoError(t, err)
	require.Len(t, players, 5)

	assert.Equal(t, deck.MustParseCards("AcKd"), players[0].Hole)
	assert.Nil(t, players[0].Range)

	assert.Equal(t, deck.MustParseCards("Ah"), players[1].Hole)

	assert.Empty(t, players[2].Hole)
	assert.Nil(t, players[2].Range)

	require.NotNil(t, players[3].Range)
	assert.Len(t, players[3].Range.Combos, 30)

	require.NotNil(t, players[4].Range)
	// QQ+ is 18 combos, AKs another 4.
	assert.Len(t, players[4].Range.Combos, 22)
}

func TestParsePlayersErrors(t *testing.T) {
	cfg := config.Default()

	_, err := parsePlayers([]string{"AcKd", "@missing"}, cfg)
	assert.ErrorContains(t, err, `no range named "missing"`)

	_, err = parsePlayers([]string{"AcKd", "ZZ+"}, cfg)
	assert.ErrorContains(t, err, "hand 2")

	_, err = parsePlayers([]string{"AcKdQh", "KhKs"}, cfg)
	assert.ErrorContains(t, err, "hand 1")
}
