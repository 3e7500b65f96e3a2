package ir

// Function is one lowered function body: a parameter list, a return
// type, and a CFG of basic blocks. Block 0 is always the entry.
type Function struct {
	ID       int
	Name     string
	Params   []Type
	Return   Type
	IsPublic bool
	Blocks   []*BasicBlock
	NextReg  int
}

// NewReg allocates the next unused virtual register in this function.
func (f *Function) NewReg() Value {
	v := Reg(f.NextReg)
	f.NextReg++
	return v
}

// Block returns the block with the given ID, creating it if absent.
func (f *Function) Block(id int) *BasicBlock {
	for _, b := range f.Blocks {
		if b.ID == id {
			return b
		}
	}
	b := &BasicBlock{ID: id}
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewBlock appends a fresh block with the next sequential ID.
func (f *Function) NewBlock() *BasicBlock {
	b := &BasicBlock{ID: len(f.Blocks)}
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewBlockWithParams appends a fresh block that expects one argument
// per type, each bound to a freshly allocated register.
func (f *Function) NewBlockWithParams(types ...Type) *BasicBlock {
	b := f.NewBlock()
	b.Params = make([]BlockParam, len(types))
	for i, t := range types {
		b.Params[i] = BlockParam{Reg: f.NewReg(), Type: t}
	}
	return b
}

// Extern is a declared-but-not-defined function, resolved against the
// runtime ABI table or an importable module's signature list.
type Extern struct {
	Name   string
	Params []Type
	Return Type
}
