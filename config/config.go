// Package config loads the game setup: who plays each side and how the
// window looks.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/notnil/chess"
	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"

	"gochess/bots"
)

// File is the config location relative to the XDG config directories.
const File = "gochess/config.yaml"

var ErrInvalid = errors.New("config: invalid value")

type Agent struct {
	Kind  string        `yaml:"kind"`
	Depth int           `yaml:"depth,omitempty"`
	Delay time.Duration `yaml:"delay,omitempty"`
}

func (a Agent) Spec() (bots.Spec, error) {
	kind, err := bots.ParseKind(a.Kind)
	if err != nil {
		return bots.Spec{}, err
	}
	if kind == bots.Minimax && a.Depth < 1 {
		return bots.Spec{}, fmt.Errorf("%w: minimax depth %d", ErrInvalid, a.Depth)
	}
	if a.Delay < 0 {
		return bots.Spec{}, fmt.Errorf("%w: negative delay %s", ErrInvalid, a.Delay)
	}
	return bots.Spec{Kind: kind, Depth: a.Depth, Delay: a.Delay}, nil
}

type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Config struct {
	// Mode is pvp, pve or eve.
	Mode string `yaml:"mode"`
	// Side is the human side in pve: w, b or r for random.
	Side     string `yaml:"side"`
	Opponent Agent  `yaml:"opponent"`

	// White and Black replace whatever Mode decided for that side.
	White *Agent `yaml:"white,omitempty"`
	Black *Agent `yaml:"black,omitempty"`

	FEN    string `yaml:"fen,omitempty"`
	Window Window `yaml:"window"`
	TPS    int    `yaml:"tps"`
	Strict bool   `yaml:"strict"`
}

func Default() Config {
	return Config{
		Mode: "pve",
		Side: "w",
		Opponent: Agent{
			Kind:  "minimax",
			Depth: 2,
			Delay: 500 * time.Millisecond,
		},
		Window: Window{Width: 640, Height: 640},
		TPS:    60,
	}
}

// Path returns the first config file found in the XDG config directories.
func Path() (string, error) {
	return xdg.SearchConfigFile(File)
}

// Load reads the config at path on top of the defaults. An empty path
// looks the file up with Path and falls back to the defaults when there is
// none.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		found, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Mode {
	case "pvp", "pve", "eve":
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalid, c.Mode)
	}
	switch c.Side {
	case "w", "b", "r":
	default:
		return fmt.Errorf("%w: side %q", ErrInvalid, c.Side)
	}
	if c.Mode != "pvp" {
		if _, err := c.Opponent.Spec(); err != nil {
			return err
		}
	}
	for _, a := range []*Agent{c.White, c.Black} {
		if a == nil {
			continue
		}
		if _, err := a.Spec(); err != nil {
			return err
		}
	}
	if c.TPS <= 0 {
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.TPS)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	return nil
}

// Seats resolves who plays each side. rng picks the human side when Side
// is r.
func (c Config) Seats(rng *rand.Rand) (white, black bots.Spec, err error) {
	human := bots.Spec{Kind: bots.Human}
	switch c.Mode {
	case "pvp":
		white, black = human, human
	case "eve":
		if white, err = c.Opponent.Spec(); err != nil {
			return
		}
		black = white
	case "pve":
		opponent, err := c.Opponent.Spec()
		if err != nil {
			return white, black, err
		}
		side := c.Side
		if side == "r" {
			side = []string{"w", "b"}[rng.Intn(2)]
		}
		if side == "w" {
			white, black = human, opponent
		} else {
			white, black = opponent, human
		}
	default:
		return white, black, fmt.Errorf("%w: mode %q", ErrInvalid, c.Mode)
	}

	if c.White != nil {
		if white, err = c.White.Spec(); err != nil {
			return
		}
	}
	if c.Black != nil {
		if black, err = c.Black.Spec(); err != nil {
			return
		}
	}
	return white, black, nil
}

// Agents builds the agents for both sides. A nil agent is a human.
func Agents(white, black bots.Spec) (w, b bots.Agent, err error) {
	if w, err = bots.New(white, chess.White); err != nil {
		return nil, nil, fmt.Errorf("white: %w", err)
	}
	if b, err = bots.New(black, chess.Black); err != nil {
		return nil, nil, fmt.Errorf("black: %w", err)
	}
	return w, b, nil
}
