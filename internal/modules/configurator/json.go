package configurator

import (
	"encoding/json"
	"fmt"

	"github.com/ecoh04/paperwalls/internal/modules/pricing"
)

const (
	ModeUniform = "uniform"
	ModePerWall = "per_wall"
)

type configurationJSON struct {
	WallCount   int                       `json:"wall_count"`
	Mode        string                    `json:"mode"`
	Wall        *WallSpec                 `json:"wall,omitempty"`
	Walls       []WallSpec                `json:"walls,omitempty"`
	Finish      pricing.Finish            `json:"finish"`
	Application pricing.ApplicationMethod `json:"application"`
}

func (c Configuration) MarshalJSON() ([]byte, error) {
	out := configurationJSON{
		WallCount:   c.WallCount,
		Finish:      c.Finish,
		Application: c.Application,
	}
	switch l := c.Layout.(type) {
	case PerWall:
		out.Mode = ModePerWall
		out.Walls = l.Walls
	case Uniform:
		out.Mode = ModeUniform
		w := l.Wall
		out.Wall = &w
	default:
		return nil, fmt.Errorf("configurator: layout is unset")
	}
	return json.Marshal(out)
}

func (c *Configuration) UnmarshalJSON(data []byte) error {
	var in configurationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	c.WallCount = in.WallCount
	c.Finish = in.Finish
	c.Application = in.Application

	switch in.Mode {
	case ModePerWall:
		c.Layout = PerWall{Walls: in.Walls}
	case ModeUniform, "":
		w := WallSpec{}
		if in.Wall != nil {
			w = *in.Wall
		}
		c.Layout = Uniform{Wall: w}
	default:
		return fmt.Errorf("configurator: unknown mode %q", in.Mode)
	}
	return nil
}
