package game_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/game"
)

type CodecTestSuite struct {
	suite.Suite
	cfg *game.Config
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecTestSuite))
}

func (s *CodecTestSuite) SetupTest() {
	s.cfg = &game.Config{SpawnLimit: 4, DropRate: 1}
}

func (s *CodecTestSuite) TestRoundTrip() {
	state, err := game.NewFromCatalog(testCatalog(), s.cfg)
	s.Require().NoError(err)

	roller := &scriptedRoller{rolls: []int{1, 1, 2, 2, 1, 1, 3, 100, 2}}
	s.Require().NoError(state.PopulateEnemies(roller))
	s.Require().NoError(state.SetEnemy(2))
	_, err = state.CreatePlayer("Ayla")
	s.Require().NoError(err)
	state.Players[0].Stats.HP = -3

	data, err := game.Encode(state)
	s.Require().NoError(err)

	decoded, err := game.Decode(data, s.cfg)
	s.Require().NoError(err)

	s.Equal(state, decoded)
	s.Equal(2, decoded.EnemyIndex)
	s.Equal(1, decoded.PlayerIndex)
	s.Len(decoded.EnemyClass(), 3)
}

func (s *CodecTestSuite) TestEncodeNil() {
	_, err := game.Encode(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *CodecTestSuite) TestDecodeRepairsIndices() {
	data := []byte(`{
		"entities": [],
		"items": [],
		"skills": [],
		"players": [{"id": 1, "name": "Hero", "stats": {"hp": 10, "attack": 1, "defense": 1, "agility": 1},
			"inventory": [], "equipment": [], "skills": []}, null],
		"enemies": null,
		"player_index": 7,
		"enemy_index": 3
	}`)

	state, err := game.Decode(data, s.cfg)
	s.Require().NoError(err)

	s.Len(state.Players, 1)
	s.Equal(0, state.PlayerIndex)
	s.NotNil(state.Enemies)
	s.Empty(state.Enemies)
	s.Equal(0, state.EnemyIndex)

	player, err := state.Player()
	s.Require().NoError(err)
	s.Equal("Hero", player.Name)
}

func (s *CodecTestSuite) TestDecodeCorrupt() {
	_, err := game.Decode([]byte(`{"players": [`), s.cfg)
	s.Require().Error(err)
	s.True(errors.IsDataLoss(err))

	_, err = game.Decode([]byte(`{"items": [{"id": 1, "item_type": "Relic"}]}`), s.cfg)
	s.True(errors.IsDataLoss(err))
}

func (s *CodecTestSuite) TestDecodeRequiresConfig() {
	_, err := game.Decode([]byte(`{}`), nil)
	s.True(errors.IsInvalidArgument(err))
}
