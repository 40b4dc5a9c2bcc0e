package core

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeBool denotes boolean parameters.
	ParamTypeBool ParamType = "bool"
	// ParamTypeString denotes free-form values such as durations or paths.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single value shown on the HUD.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures the current set of values exposed by a sim or host.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// ParameterProvider is implemented by anything that can describe its state.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}

// Merge appends the groups of other snapshots after s.
func (s ParameterSnapshot) Merge(others ...ParameterSnapshot) ParameterSnapshot {
	out := ParameterSnapshot{Groups: append([]ParameterGroup(nil), s.Groups...)}
	for _, o := range others {
		out.Groups = append(out.Groups, o.Groups...)
	}
	return out
}
