package feedsim

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
)

var taskNames = []string{
	"find-the-cat",
	"count-the-bikes",
	"spot-the-logo",
	"read-the-sign",
	"name-the-landmark",
}

var playerNames = []string{
	"ada", "grace", "linus", "dennis", "ken", "rob", "barbara", "margaret",
	"alan", "edsger", "donald", "radia", "vint", "tim", "brendan", "anders",
}

// getRandomInt returns a uniform random integer in [0, max).
func getRandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

// getRandomFloat returns a uniform random float in [0, 1).
func getRandomFloat() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return 0
	}
	return float64(n.Int64()) / float64(1<<53)
}

// Generator produces scored-image events and keeps a rolling leaderboard
// built from the scores it has handed out.
type Generator struct {
	mu      sync.Mutex
	cfg     Config
	players []string
	scores  map[string]float64
	seq     int
}

// NewGenerator creates a generator for the given configuration.
func NewGenerator(cfg Config) *Generator {
	count := cfg.PlayerCount
	if count <= 0 || count > len(playerNames) {
		count = len(playerNames)
	}
	players := make([]string, count)
	copy(players, playerNames[:count])
	return &Generator{
		cfg:     cfg,
		players: players,
		scores:  make(map[string]float64, count),
	}
}

// Next generates one scored-image event and folds its score into the
// simulated leaderboard.
func (g *Generator) Next() model.ScoredImage {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	player := g.players[getRandomInt(len(g.players))]
	score := getRandomFloat() * 100
	g.scores[player] += score

	url := fmt.Sprintf("%s/frame-%04d.jpg", g.cfg.ImageBaseURL, g.seq)
	if g.cfg.BadImageRate > 0 && getRandomFloat() < g.cfg.BadImageRate {
		url = fmt.Sprintf("%s/missing-%04d.jpg", g.cfg.ImageBaseURL, g.seq)
	}

	return model.ScoredImage{
		ID:       uuid.NewString(),
		ImageURL: url,
		Score:    score,
		TaskName: taskNames[getRandomInt(len(taskNames))],
	}
}

// Snapshot builds a leaderboard snapshot from the scores generated so far.
func (g *Generator) Snapshot() model.LeaderboardSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	top := make([]model.Player, 0, len(g.scores))
	for name, score := range g.scores {
		top = append(top, model.Player{Name: name, Score: score})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > 10 {
		top = top[:10]
	}

	return model.LeaderboardSnapshot{
		Top10:          top,
		Providers:      map[string]int{"simulated": len(g.players)},
		CurrentPlayers: len(g.players),
	}
}
