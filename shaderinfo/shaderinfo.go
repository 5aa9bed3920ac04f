// Package shaderinfo reads the fragment-stage properties the state cache
// keys its rules on out of WGSL or SPIR-V shaders.
package shaderinfo

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/hwstate"
)

// Errors returned by Inspect, InspectModule and DualSourceSPIRV.
var (
	ErrNoFragmentStage = errors.New("shaderinfo: no fragment entry point")
	ErrInvalidSPIRV    = errors.New("shaderinfo: invalid SPIR-V")
)

// Fragment describes a fragment entry point.
type Fragment struct {
	EntryPoint string

	// DualSource is set when the shader writes a second blend source
	// (@blend_src(1)).
	DualSource bool

	// Kill is set when the entry point or a function it calls discards.
	Kill bool

	// ComputedDepth is set when the shader writes frag_depth.
	ComputedDepth bool

	// EarlyFragmentTests is set by @early_depth_test.
	EarlyFragmentTests bool

	// Outputs is the mask of color locations written.
	Outputs uint32
}

// Apply copies the fragment properties into p.
func (f Fragment) Apply(p *hwstate.Pipeline) {
	p.Stages |= hwstate.StageFragment
	p.DualSourceBlend = f.DualSource
	p.KillPixel = f.Kill
	p.ComputedDepth = f.ComputedDepth
	p.EarlyFragmentTests = f.EarlyFragmentTests
}

// Inspect parses WGSL source and describes the fragment entry point named
// entry, or the first one when entry is empty.
func Inspect(source, entry string) (Fragment, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return Fragment{}, fmt.Errorf("shaderinfo: %w", err)
	}
	m, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return Fragment{}, fmt.Errorf("shaderinfo: %w", err)
	}
	return InspectModule(m, entry)
}

// InspectModule describes a fragment entry point of a lowered module.
func InspectModule(m *ir.Module, entry string) (Fragment, error) {
	for i := range m.EntryPoints {
		ep := &m.EntryPoints[i]
		if ep.Stage != ir.StageFragment || (entry != "" && ep.Name != entry) {
			continue
		}
		f := Fragment{
			EntryPoint:         ep.Name,
			EarlyFragmentTests: ep.EarlyDepthTest != nil,
		}
		if r := ep.Function.Result; r != nil {
			f.outputs(m, r.Type, r.Binding)
		}
		f.Kill = kills(m, ep.Function.Body, make(map[ir.FunctionHandle]bool))
		return f, nil
	}
	if entry != "" {
		return Fragment{}, fmt.Errorf("%w: %q", ErrNoFragmentStage, entry)
	}
	return Fragment{}, ErrNoFragmentStage
}

// outputs records the bindings of a result of type t.
func (f *Fragment) outputs(m *ir.Module, t ir.TypeHandle, b *ir.Binding) {
	if b != nil {
		f.binding(*b)
		return
	}
	if int(t) >= len(m.Types) {
		return
	}
	var members []ir.StructMember
	switch st := m.Types[t].Inner.(type) {
	case ir.StructType:
		members = st.Members
	case *ir.StructType:
		members = st.Members
	}
	for _, mem := range members {
		if mem.Binding != nil {
			f.binding(*mem.Binding)
		}
	}
}

func (f *Fragment) binding(b ir.Binding) {
	switch b := b.(type) {
	case ir.LocationBinding:
		if b.Location < 32 {
			f.Outputs |= 1 << b.Location
		}
		if b.BlendSrc != nil && *b.BlendSrc == 1 {
			f.DualSource = true
		}
	case ir.BuiltinBinding:
		if b.Builtin == ir.BuiltinFragDepth {
			f.ComputedDepth = true
		}
	}
}

// kills reports whether block, or a function it calls, contains discard.
func kills(m *ir.Module, block ir.Block, seen map[ir.FunctionHandle]bool) bool {
	for _, st := range block {
		switch s := st.Kind.(type) {
		case ir.StmtKill:
			return true
		case ir.StmtBlock:
			if kills(m, s.Block, seen) {
				return true
			}
		case ir.StmtIf:
			if kills(m, s.Accept, seen) || kills(m, s.Reject, seen) {
				return true
			}
		case ir.StmtSwitch:
			for _, c := range s.Cases {
				if kills(m, c.Body, seen) {
					return true
				}
			}
		case ir.StmtLoop:
			if kills(m, s.Body, seen) || kills(m, s.Continuing, seen) {
				return true
			}
		case ir.StmtCall:
			if seen[s.Function] || int(s.Function) >= len(m.Functions) {
				continue
			}
			seen[s.Function] = true
			if kills(m, m.Functions[s.Function].Body, seen) {
				return true
			}
		}
	}
	return false
}
