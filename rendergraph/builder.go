package rendergraph

// PassID identifies a recorded pass by its index into Builder.Passes,
// matching the source's RenderPassId.
type PassID uint32

// BackBufferID is the reserved resource id for the swap-chain target,
// matching kRgBackBufferId.
const BackBufferID = 0

// Handler is a recorded pass's body, invoked by the executor with the
// pass's own RenderContext and opaque data pointer.
type Handler func(ctx *RenderContext, data any)

// PassBuilder accumulates one pass's resource reads and writes as the
// caller declares them, matching RgPassBuilder.
type PassBuilder struct {
	ID      PassID
	Name    string
	Handler Handler
	Data    any

	ReadResources  []ResourceAccess
	WriteResources []ResourceAccess

	graph *Builder
}

// ReadTexture records that this pass reads handle with the given texture
// access bitmask.
func (p *PassBuilder) ReadTexture(h ResourceHandle, access ReadTextureAccess) {
	p.ReadResources = append(p.ReadResources, ResourceAccess{Handle: h, Access: uint32(access)})
}

// WriteTexture records that this pass writes handle, returning the new
// (version+1) handle downstream passes must use to read the result.
func (p *PassBuilder) WriteTexture(h ResourceHandle, access WriteTextureAccess) ResourceHandle {
	p.WriteResources = append(p.WriteResources, ResourceAccess{Handle: h, Access: uint32(access), IsWrite: true})
	next := h
	next.Version++
	p.graph.registerVersion(next)
	return next
}

// ReadBuffer records that this pass reads handle with the given buffer
// access bitmask.
func (p *PassBuilder) ReadBuffer(h ResourceHandle, access ReadBufferAccess) {
	p.ReadResources = append(p.ReadResources, ResourceAccess{Handle: h, Access: uint32(access)})
}

// WriteBuffer records that this pass writes handle, returning the new
// (version+1) handle.
func (p *PassBuilder) WriteBuffer(h ResourceHandle, access WriteBufferAccess) ResourceHandle {
	p.WriteResources = append(p.WriteResources, ResourceAccess{Handle: h, Access: uint32(access), IsWrite: true})
	next := h
	next.Version++
	p.graph.registerVersion(next)
	return next
}

// DependsOn records a manual ordering dependency on another pass beyond
// what resource access alone implies, matching
// RgPassBuilder::manual_dependencies.
func (p *PassBuilder) DependsOn(other PassID) {
	p.graph.manualDeps[p.ID] = append(p.graph.manualDeps[p.ID], other)
}

// Builder records passes and the transient resources they touch,
// matching RgBuilder. Compile(b) turns the recording into a Graph.
type Builder struct {
	Width, Height int

	Passes        []*PassBuilder
	ResourceList  []ResourceHandle
	ResourceDescs map[uint32]any

	BackBuffer ResourceHandle

	manualDeps map[PassID][]PassID

	handleIndex uint32
}

// NewBuilder starts a recording for a frame of the given output
// resolution, matching init_rg_builder; it seeds the back buffer
// resource exactly as create_back_buffer does.
func NewBuilder(width, height int) *Builder {
	b := &Builder{
		Width:         width,
		Height:        height,
		ResourceDescs: make(map[uint32]any),
		manualDeps:    make(map[PassID][]PassID),
	}
	b.BackBuffer = b.nextHandle(ResourceTexture, TemporalLifetimeInfinite)
	return b
}

func (b *Builder) nextHandle(t ResourceType, temporalLifetime uint8) ResourceHandle {
	h := ResourceHandle{ID: b.handleIndex, Type: t, TemporalLifetime: temporalLifetime}
	b.handleIndex++
	b.ResourceList = append(b.ResourceList, h)
	return h
}

func (b *Builder) registerVersion(h ResourceHandle) {
	b.ResourceList = append(b.ResourceList, h)
}

// CreateTexture declares a new transient texture resource, matching
// rg_create_texture_ex.
func (b *Builder) CreateTexture(desc TextureDesc, temporalLifetime uint8) ResourceHandle {
	h := b.nextHandle(ResourceTexture, temporalLifetime)
	b.ResourceDescs[h.ID] = desc
	return h
}

// CreateBuffer declares a new transient buffer resource, matching
// rg_create_buffer_ex.
func (b *Builder) CreateBuffer(desc BufferDesc, temporalLifetime uint8) ResourceHandle {
	h := b.nextHandle(ResourceBuffer, temporalLifetime)
	b.ResourceDescs[h.ID] = desc
	return h
}

// AddPass begins recording a new pass, matching add_render_pass /
// RgBuilder::AddPass.
func (b *Builder) AddPass(name string, data any, handler Handler) *PassBuilder {
	p := &PassBuilder{
		ID:      PassID(len(b.Passes)),
		Name:    name,
		Handler: handler,
		Data:    data,
		graph:   b,
	}
	b.Passes = append(b.Passes, p)
	return p
}
