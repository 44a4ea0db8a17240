package dto

// Description is the on-disk form of a vehicle model.
// It uses "mapstructure" tags so YAML and JSON documents decode through the
// same generic map.
type Description struct {
	Name       string  `json:"name" mapstructure:"name"`
	Epsilon    float64 `json:"epsilon" mapstructure:"epsilon"`
	AllowReuse bool    `json:"allow_identity_reuse" mapstructure:"allow_identity_reuse"`
	Frames     []Frame `json:"frames" mapstructure:"frames"`
}

// Frame describes one body and the edge to its parent.
// Angles are in degrees.
type Frame struct {
	ID     string `json:"id" mapstructure:"id"`
	Parent string `json:"parent" mapstructure:"parent"`
	Space  string `json:"space" mapstructure:"space"`
	Dim    int    `json:"dim" mapstructure:"dim"`

	// Body
	Kind string  `json:"kind" mapstructure:"kind"`
	Mass float64 `json:"mass" mapstructure:"mass"`

	// Edge
	Translation []float64   `json:"translation" mapstructure:"translation"`
	Rotation    *Rotation   `json:"rotation" mapstructure:"rotation"`
	Roll        float64     `json:"roll" mapstructure:"roll"`
	Pitch       float64     `json:"pitch" mapstructure:"pitch"`
	Yaw         float64     `json:"yaw" mapstructure:"yaw"`
	Matrix      [][]float64 `json:"matrix" mapstructure:"matrix"`
	Joint       *Joint      `json:"joint" mapstructure:"joint"`
}

// Rotation is a single rotation about a principal axis.
type Rotation struct {
	Axis    string  `json:"axis" mapstructure:"axis"`
	Degrees float64 `json:"degrees" mapstructure:"degrees"`
}

// Joint configures a jointed edge. Revolute values are degrees, prismatic
// values are meters.
type Joint struct {
	Dof   string  `json:"dof" mapstructure:"dof"`
	Value float64 `json:"value" mapstructure:"value"`
}
