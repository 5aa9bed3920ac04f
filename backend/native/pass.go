package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

// Pass is the part of a wgpu render pass encoder the replay drives.
type Pass interface {
	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	SetScissorRect(x, y, width, height uint32)
	SetBlendConstant(color *gputypes.Color)
	SetStencilReference(reference uint32)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

var _ Pass = (*core.CoreRenderPassEncoder)(nil)

// PassState represents the state of a RenderPass.
type PassState int

const (
	// PassStateRecording means the pass is actively recording commands.
	PassStateRecording PassState = iota

	// PassStateEnded means the pass has been ended.
	PassStateEnded
)

// String returns the string representation of PassState.
func (s PassState) String() string {
	switch s {
	case PassStateRecording:
		return "Recording"
	case PassStateEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// CommandKind identifies a recorded render pass command.
type CommandKind uint8

const (
	CmdViewport CommandKind = iota
	CmdScissorRect
	CmdBlendConstant
	CmdStencilReference
	CmdDraw
)

func (k CommandKind) String() string {
	switch k {
	case CmdViewport:
		return "SetViewport"
	case CmdScissorRect:
		return "SetScissorRect"
	case CmdBlendConstant:
		return "SetBlendConstant"
	case CmdStencilReference:
		return "SetStencilReference"
	case CmdDraw:
		return "Draw"
	}
	return fmt.Sprintf("CommandKind(%d)", uint8(k))
}

// Command is one recorded render pass call. Viewport holds the six
// SetViewport arguments; Args holds the integer arguments of the other
// calls in declaration order.
type Command struct {
	Kind     CommandKind
	Viewport [6]float32
	Args     [4]uint32
	Color    gputypes.Color
}

func (c Command) String() string {
	switch c.Kind {
	case CmdViewport:
		v := c.Viewport
		return fmt.Sprintf("%s(%g, %g, %g, %g, %g, %g)", c.Kind, v[0], v[1], v[2], v[3], v[4], v[5])
	case CmdBlendConstant:
		return fmt.Sprintf("%s(%g, %g, %g, %g)", c.Kind, c.Color.R, c.Color.G, c.Color.B, c.Color.A)
	case CmdStencilReference:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Args[0])
	}
	a := c.Args
	return fmt.Sprintf("%s(%d, %d, %d, %d)", c.Kind, a[0], a[1], a[2], a[3])
}

// RenderPass records render pass commands and forwards them to a wgpu
// pass, when one is attached.
//
// Thread Safety:
// RenderPass serializes its own methods, but commands from several
// goroutines interleave in no defined order.
//
// State Machine:
//
//	Recording -> End() -> Ended
type RenderPass struct {
	mu sync.Mutex

	// pass is the underlying wgpu pass. Nil records only.
	pass  Pass
	state PassState
	log   []Command
}

// NewRenderPass wraps pass. A nil pass gives a RenderPass that only keeps
// the command log.
func NewRenderPass(pass Pass) *RenderPass {
	return &RenderPass{pass: pass}
}

// State returns the current pass state.
func (p *RenderPass) State() PassState {
	if p == nil {
		return PassStateEnded
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// IsEnded returns true if the pass has been ended.
func (p *RenderPass) IsEnded() bool {
	return p.State() == PassStateEnded
}

// Commands returns a copy of the commands recorded so far.
func (p *RenderPass) Commands() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Command(nil), p.log...)
}

// End stops recording. Ending the wgpu pass itself is left to its owner,
// which also ends the parent command encoder.
func (p *RenderPass) End() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	p.state = PassStateEnded
	return nil
}

// checkRecording returns an error if the pass is not in Recording state.
// The caller must hold p.mu.
func (p *RenderPass) checkRecording() error {
	if p.state != PassStateRecording {
		return ErrPassEnded
	}
	return nil
}

// SetViewport sets the viewport transformation.
func (p *RenderPass) SetViewport(x, y, width, height, minDepth, maxDepth float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	p.log = append(p.log, Command{Kind: CmdViewport, Viewport: [6]float32{x, y, width, height, minDepth, maxDepth}})

	// Forward to core pass if available
	if p.pass != nil {
		p.pass.SetViewport(x, y, width, height, minDepth, maxDepth)
	}
	return nil
}

// SetScissorRect sets the scissor rectangle for clipping.
func (p *RenderPass) SetScissorRect(x, y, width, height uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set scissor rect: %w", err)
	}
	p.log = append(p.log, Command{Kind: CmdScissorRect, Args: [4]uint32{x, y, width, height}})

	if p.pass != nil {
		p.pass.SetScissorRect(x, y, width, height)
	}
	return nil
}

// SetBlendConstant sets the blend constant color.
func (p *RenderPass) SetBlendConstant(color gputypes.Color) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set blend constant: %w", err)
	}
	p.log = append(p.log, Command{Kind: CmdBlendConstant, Color: color})

	if p.pass != nil {
		p.pass.SetBlendConstant(&color)
	}
	return nil
}

// SetStencilReference sets the stencil reference value.
func (p *RenderPass) SetStencilReference(reference uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("set stencil reference: %w", err)
	}
	p.log = append(p.log, Command{Kind: CmdStencilReference, Args: [4]uint32{reference}})

	if p.pass != nil {
		p.pass.SetStencilReference(reference)
	}
	return nil
}

// Draw issues a non-indexed draw call.
func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkRecording(); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	p.log = append(p.log, Command{Kind: CmdDraw, Args: [4]uint32{vertexCount, instanceCount, firstVertex, firstInstance}})

	if p.pass != nil {
		p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	}
	return nil
}
