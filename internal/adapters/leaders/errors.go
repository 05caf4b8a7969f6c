package leaders

import "errors"

// Sentinel kinds for leaderboard feed errors.
var (
	ErrRefresh = errors.New("leaderboard refresh failed")
)
