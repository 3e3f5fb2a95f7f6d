package game

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure from Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of the engine. Zero-valued fields in a YAML
// overlay keep their DefaultConfig values.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Player     PlayerConfig     `yaml:"player"`
	Weapon     WeaponConfig     `yaml:"weapon"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Agents     []AgentKind      `yaml:"agents"`
	Sprites    []SpriteDef      `yaml:"sprites"`
	Map        []string         `yaml:"map"`
}

// ScreenConfig is the viewport in pixels.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	TPS    int `yaml:"tps"` // simulation ticks per second
}

// GraphicsConfig controls the ray scan.
type GraphicsConfig struct {
	FOV         float64 `yaml:"fov"`      // radians
	NumRays     int     `yaml:"num_rays"` // one per screen column strip
	MaxDepth    int     `yaml:"max_depth"`
	TextureSize int     `yaml:"texture_size"`
	NearClip    float64 `yaml:"near_clip"` // sprites closer than this are not drawn
}

// PlayerConfig is the player's spawn and movement tuning.
type PlayerConfig struct {
	X                float64 `yaml:"x"`
	Y                float64 `yaml:"y"`
	Heading          float64 `yaml:"heading"`
	Speed            float64 `yaml:"speed"`     // tiles per second
	TurnRate         float64 `yaml:"turn_rate"` // radians per second
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
	Size             float64 `yaml:"size"`
	Health           int     `yaml:"health"`
}

// WeaponConfig describes the player's only weapon.
type WeaponConfig struct {
	Sheet     string        `yaml:"sheet"`
	Damage    int           `yaml:"damage"`
	Frames    int           `yaml:"frames"`
	FrameTime time.Duration `yaml:"frame_time"`
	Scale     float64       `yaml:"scale"`
	Aspect    float64       `yaml:"aspect"`
}

// DifficultyConfig controls world population and agent persistence.
type DifficultyConfig struct {
	NumAgents    int `yaml:"num_agents"`
	MinSpawnDist int `yaml:"min_spawn_dist"` // Manhattan distance from the player
	GiveUpTicks  int `yaml:"give_up_ticks"`  // ticks without sight before pursuit ends
}

// AnimFrames is the frame count of each agent animation.
type AnimFrames struct {
	Idle   int `yaml:"idle"`
	Walk   int `yaml:"walk"`
	Attack int `yaml:"attack"`
	Pain   int `yaml:"pain"`
	Death  int `yaml:"death"`
}

// AgentKind is the configuration record for one kind of agent.
type AgentKind struct {
	Name        string        `yaml:"name"`
	Weight      float64       `yaml:"weight"` // relative spawn probability
	Speed       float64       `yaml:"speed"`  // tiles per second
	Size        float64       `yaml:"size"`   // collision half-extent
	Health      int           `yaml:"health"`
	Damage      int           `yaml:"damage"`
	Accuracy    float64       `yaml:"accuracy"`
	AttackRange float64       `yaml:"attack_range"`
	Scale       float64       `yaml:"scale"`
	HeightShift float64       `yaml:"height_shift"`
	Aspect      float64       `yaml:"aspect"` // image width / height
	FrameTime   time.Duration `yaml:"frame_time"`
	Frames      AnimFrames    `yaml:"frames"`
}

// SpriteDef places a decoration. Frames > 1 makes it animated.
type SpriteDef struct {
	Sheet       string        `yaml:"sheet"`
	X           float64       `yaml:"x"`
	Y           float64       `yaml:"y"`
	Scale       float64       `yaml:"scale"`
	HeightShift float64       `yaml:"height_shift"`
	Aspect      float64       `yaml:"aspect"`
	Frames      int           `yaml:"frames"`
	FrameTime   time.Duration `yaml:"frame_time"`
}

// DefaultMap is the built-in 16x32 level.
var DefaultMap = []string{
	"1111111111111111",
	"1..............1",
	"1..............1",
	"1...3....2222..1",
	"1...3......2...1",
	"1..............1",
	"1...222...4....1",
	"1..............1",
	"1111.111111111.1",
	"1..............1",
	"1..5555...5555.1",
	"1..5......5....1",
	"1..5......5....1",
	"1..............1",
	"1..............1",
	"111111..11111111",
	"1..............1",
	"1....1111111...1",
	"1..............1",
	"1..............1",
	"1..............1",
	"1...33333333...1",
	"1..............1",
	"1..............1",
	"1..............1",
	"1111...11...1111",
	"1..............1",
	"1..4......4....1",
	"1..4......4....1",
	"1..............1",
	"1..............1",
	"1111111111111111",
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	light := func(sheet string, x, y float64) SpriteDef {
		return SpriteDef{Sheet: sheet, X: x, Y: y, Scale: 0.85, HeightShift: 0.25, Aspect: 0.5, Frames: 4, FrameTime: 120 * time.Millisecond}
	}
	sprites := []SpriteDef{
		{Sheet: "candelabra", X: 12, Y: 6, Scale: 0.85, HeightShift: 0.5, Aspect: 0.4, Frames: 1},
	}
	for _, p := range [][2]float64{
		{1.5, 1.5}, {1.5, 7.5}, {5.5, 3.25}, {5.5, 4.75}, {7.5, 2.5}, {7.5, 5.5},
		{14.5, 1.5}, {14.5, 4.5}, {14.5, 24.5}, {14.5, 30.5}, {1.5, 30.5}, {1.5, 24.5},
	} {
		sprites = append(sprites, light("green_light", p[0], p[1]))
	}
	for _, p := range [][2]float64{
		{14.5, 5.5}, {14.5, 7.5}, {12.5, 7.5}, {14.5, 12.5}, {9.5, 20.5}, {10.5, 20.5}, {3.5, 14.5}, {3.5, 18.5},
	} {
		sprites = append(sprites, light("red_light", p[0], p[1]))
	}

	return Config{
		Screen: ScreenConfig{Width: 1600, Height: 900, TPS: 60},
		Graphics: GraphicsConfig{
			FOV:         math.Pi / 3,
			NumRays:     320,
			MaxDepth:    20,
			TextureSize: 256,
			NearClip:    0.3,
		},
		Player: PlayerConfig{
			X: 14, Y: 2, Heading: 3.825,
			Speed:            4.0,
			TurnRate:         2.0,
			MouseSensitivity: 0.0003,
			Size:             0.2,
			Health:           100,
		},
		Weapon: WeaponConfig{
			Sheet: "shotgun", Damage: 50, Frames: 6,
			FrameTime: 90 * time.Millisecond, Scale: 0.4, Aspect: 1.0,
		},
		Difficulty: DifficultyConfig{NumAgents: 20, MinSpawnDist: 10, GiveUpTicks: 300},
		Agents: []AgentKind{
			{
				Name: "soldier", Weight: 0.7, Speed: 0.9, Size: 0.1,
				Health: 100, Damage: 5, Accuracy: 0.35, AttackRange: 4,
				Scale: 0.6, HeightShift: 0.38, Aspect: 0.55,
				FrameTime: 120 * time.Millisecond,
				Frames:    AnimFrames{Idle: 8, Walk: 4, Attack: 2, Pain: 1, Death: 9},
			},
			{
				Name: "caco_demon", Weight: 0.2, Speed: 1.5, Size: 0.3,
				Health: 150, Damage: 30, Accuracy: 0.15, AttackRange: 3,
				Scale: 0.7, HeightShift: 0.27, Aspect: 1.0,
				FrameTime: 250 * time.Millisecond,
				Frames:    AnimFrames{Idle: 8, Walk: 3, Attack: 5, Pain: 2, Death: 6},
			},
			{
				Name: "cyber_demon", Weight: 0.1, Speed: 0.33, Size: 0.2,
				Health: 350, Damage: 15, Accuracy: 0.25, AttackRange: 5.5,
				Scale: 1.0, HeightShift: 0.04, Aspect: 0.7,
				FrameTime: 210 * time.Millisecond,
				Frames:    AnimFrames{Idle: 8, Walk: 4, Attack: 2, Pain: 2, Death: 9},
			},
		},
		Sprites: sprites,
		Map:     append([]string(nil), DefaultMap...),
	}
}

// LoadConfig reads a YAML file and overlays it onto DefaultConfig.
// Lists (agents, sprites, map) replace the defaults wholesale when present.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes onto DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise break the geometry.
func (c Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen %dx%d", ErrInvalidConfig, c.Screen.Width, c.Screen.Height)
	case c.Screen.TPS <= 0:
		return fmt.Errorf("%w: tps must be > 0", ErrInvalidConfig)
	case c.Graphics.FOV <= 0 || c.Graphics.FOV >= math.Pi:
		return fmt.Errorf("%w: fov %.3f outside (0, pi)", ErrInvalidConfig, c.Graphics.FOV)
	case c.Graphics.NumRays <= 0 || c.Graphics.NumRays > c.Screen.Width:
		return fmt.Errorf("%w: num_rays %d", ErrInvalidConfig, c.Graphics.NumRays)
	case c.Graphics.MaxDepth <= 0:
		return fmt.Errorf("%w: max_depth must be > 0", ErrInvalidConfig)
	case c.Weapon.Frames <= 0:
		return fmt.Errorf("%w: weapon frames must be > 0", ErrInvalidConfig)
	case len(c.Map) == 0:
		return fmt.Errorf("%w: empty map", ErrInvalidConfig)
	}
	for _, k := range c.Agents {
		if k.Name == "" {
			return fmt.Errorf("%w: agent kind without name", ErrInvalidConfig)
		}
		if k.Accuracy < 0 || k.Accuracy > 1 {
			return fmt.Errorf("%w: agent %s accuracy %.2f outside [0,1]", ErrInvalidConfig, k.Name, k.Accuracy)
		}
		if k.Health <= 0 || k.Size < 0 || k.Size >= 0.5 {
			return fmt.Errorf("%w: agent %s health/size out of range", ErrInvalidConfig, k.Name)
		}
	}
	return nil
}

// Kind looks up an agent kind by name.
func (c Config) Kind(name string) (AgentKind, bool) {
	for _, k := range c.Agents {
		if k.Name == name {
			return k, true
		}
	}
	return AgentKind{}, false
}

// Projection holds the derived constants of the perspective projection.
type Projection struct {
	Width, Height int
	HalfWidth     float64
	HalfHeight    float64
	FOV           float64
	HalfFOV       float64
	NumRays       int
	HalfNumRays   float64
	DeltaAngle    float64
	ScreenDist    float64 // distance to the projection plane in pixels
	ColumnWidth   float64 // screen pixels per ray
	MaxDepth      int
	NearClip      float64
}

// Projection derives the projection constants from the config.
func (c Config) Projection() Projection {
	halfFOV := c.Graphics.FOV / 2
	halfW := float64(c.Screen.Width) / 2
	return Projection{
		Width:       c.Screen.Width,
		Height:      c.Screen.Height,
		HalfWidth:   halfW,
		HalfHeight:  float64(c.Screen.Height) / 2,
		FOV:         c.Graphics.FOV,
		HalfFOV:     halfFOV,
		NumRays:     c.Graphics.NumRays,
		HalfNumRays: float64(c.Graphics.NumRays / 2),
		DeltaAngle:  c.Graphics.FOV / float64(c.Graphics.NumRays),
		ScreenDist:  halfW / math.Tan(halfFOV),
		ColumnWidth: float64(c.Screen.Width / c.Graphics.NumRays),
		MaxDepth:    c.Graphics.MaxDepth,
		NearClip:    c.Graphics.NearClip,
	}
}

// TickDuration is the simulated time of one tick.
func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.Screen.TPS)
}
